package conf

import (
	"time"

	"github.com/cloudgovern/steward/git"
	"github.com/cloudgovern/steward/standard"
	"github.com/sirupsen/logrus"
)

// Configuration is the whole agent configuration, read once at startup
// from a local file or a git repository.
type Configuration struct {
	ApiKey  string `json:"apiKey" yaml:"apiKey"`
	BaseUrl string `json:"baseUrl" yaml:"baseUrl"`

	// MailApiUrl is the admin API of the governed mail service.
	MailApiUrl string `json:"mailApiUrl" yaml:"mailApiUrl"`

	// Standards holds the per-standard mode settings keyed by standard
	// name.
	Standards map[string]*standard.Settings `json:"standards" yaml:"standards"`

	// StandardsRepo optionally points at a git repository carrying the
	// standards file; when set the processor keeps it pulled and reloads
	// the settings periodically.
	StandardsRepo     git.Options `json:"standardsRepo,omitempty" yaml:"standardsRepo,omitempty"`
	StandardsFilepath string      `json:"standardsFilepath,omitempty" yaml:"standardsFilepath,omitempty"`

	AuditLogFilepath string `json:"auditLogFilepath,omitempty" yaml:"auditLogFilepath,omitempty"`

	LogLevel    string       `json:"logLevel" yaml:"logLevel"`
	LogrusLevel logrus.Level `json:"-" yaml:"-"`

	PollerConf PollerConf `json:"pollerConf" yaml:"pollerConf"`
	PoolConf   PoolConf   `json:"poolConf" yaml:"poolConf"`
}

type PollerConf struct {
	PollingWaitIntervalInMillis time.Duration `json:"pollingWaitIntervalInMillis" yaml:"pollingWaitIntervalInMillis"`
	VisibilityTimeoutInSeconds  int64         `json:"visibilityTimeoutInSeconds" yaml:"visibilityTimeoutInSeconds"`
	MaxNumberOfMessages         int64         `json:"maxNumberOfMessages" yaml:"maxNumberOfMessages"`
}

type PoolConf struct {
	MaxNumberOfWorker        int32         `json:"maxNumberOfWorker" yaml:"maxNumberOfWorker"`
	MinNumberOfWorker        int32         `json:"minNumberOfWorker" yaml:"minNumberOfWorker"`
	QueueSize                int32         `json:"queueSize" yaml:"queueSize"`
	KeepAliveTimeInMillis    time.Duration `json:"keepAliveTimeInMillis" yaml:"keepAliveTimeInMillis"`
	MonitoringPeriodInMillis time.Duration `json:"monitoringPeriodInMillis" yaml:"monitoringPeriodInMillis"`
}
