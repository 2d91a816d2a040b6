package queue

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/cloudgovern/steward/standard"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// payload is one check request issued by the control plane: which
// standard to run against which tenant, optionally overriding the
// configured mode settings for this single invocation.
type payload struct {
	RequestId string             `json:"requestId,omitempty"`
	Tenant    string             `json:"tenant"`
	Standard  string             `json:"standard"`
	Settings  *standard.Settings `json:"settings,omitempty"`
}

type MessageHandler interface {
	Handle(message sqs.Message) (*ResultPayload, error)
	UpdateSettings(standards map[string]*standard.Settings)
}

type messageHandler struct {
	runner *standard.Runner
	checks map[string]standard.Check

	settingsMu *sync.RWMutex
	settings   map[string]*standard.Settings
}

func NewMessageHandler(runner *standard.Runner,
	checks map[string]standard.Check,
	settings map[string]*standard.Settings) MessageHandler {

	return &messageHandler{
		runner:     runner,
		checks:     checks,
		settingsMu: &sync.RWMutex{},
		settings:   settings,
	}
}

// UpdateSettings swaps the configured per-standard settings, used when
// the standards repository is pulled with changes.
func (mh *messageHandler) UpdateSettings(standards map[string]*standard.Settings) {
	mh.settingsMu.Lock()
	mh.settings = standards
	mh.settingsMu.Unlock()
}

func (mh *messageHandler) settingsOf(standardName string) *standard.Settings {
	mh.settingsMu.RLock()
	defer mh.settingsMu.RUnlock()
	return mh.settings[standardName]
}

func (mh *messageHandler) Handle(message sqs.Message) (*ResultPayload, error) {

	checkRequest := payload{}
	err := json.Unmarshal([]byte(*message.Body), &checkRequest)
	if err != nil {
		return nil, err
	}

	if checkRequest.Tenant == "" {
		return nil, errors.Errorf("Message[%s] does not contain a tenant property.", *message.MessageId)
	}
	if checkRequest.Standard == "" {
		return nil, errors.Errorf("Message[%s] with tenant[%s] does not contain a standard property.", *message.MessageId, checkRequest.Tenant)
	}

	check, contains := mh.checks[checkRequest.Standard]
	if !contains {
		return nil, errors.Errorf("There is no registered standard[%s]. Message[%s] will be ignored.", checkRequest.Standard, *message.MessageId)
	}

	settings := checkRequest.Settings
	if settings == nil {
		settings = mh.settingsOf(checkRequest.Standard)
	}
	if settings == nil {
		return nil, errors.Errorf("There are no settings configured for standard[%s]. Message[%s] will be ignored.", checkRequest.Standard, *message.MessageId)
	}

	resultPayload := &ResultPayload{
		RequestId: checkRequest.RequestId,
		Tenant:    checkRequest.Tenant,
		Standard:  checkRequest.Standard,
	}

	start := time.Now()
	result, err := mh.runner.Run(check, standard.Tenant(checkRequest.Tenant), settings)
	took := time.Since(start)

	if err != nil {
		resultPayload.IsSuccessful = false
		resultPayload.FailureMessage = standard.Normalize(err)
		logrus.Debugf("Standard[%s] invocation of message[%s] for tenant[%s] failed: %s", checkRequest.Standard, *message.MessageId, checkRequest.Tenant, resultPayload.FailureMessage)
		return resultPayload, nil
	}

	resultPayload.Eligible = result.Eligible
	resultPayload.IsSuccessful = !result.Failed()
	resultPayload.Outcomes = make(map[string]string, len(result.Outcomes))

	for mode, outcome := range result.Outcomes {
		resultPayload.Outcomes[mode.String()] = outcome.Status.String()
		if outcome.Status == standard.StatusFailed && resultPayload.FailureMessage == "" {
			resultPayload.FailureMessage = standard.Normalize(outcome.Err)
		}
	}

	logrus.Debugf("Standard[%s] invocation of message[%s] for tenant[%s] has been completed and it took %f seconds.", checkRequest.Standard, *message.MessageId, checkRequest.Tenant, took.Seconds())

	return resultPayload, nil
}
