package conf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudgovern/steward/git"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	LocalSourceType = "local"
	GitSourceType   = "git"

	DefaultBaseUrl = "https://api.cloudgovern.io"
)

var readFileFromGitFunc = readFileFromGit
var readFileFromLocalFunc = readFileFromLocal

var defaultConfFilepath = filepath.Join("~", "steward", "config.json")

func Read() (*Configuration, error) {

	confSourceType := os.Getenv("STEWARD_CONF_SOURCE_TYPE")
	conf, err := readFileFromSource(strings.ToLower(confSourceType))
	if err != nil {
		return nil, err
	}

	if os.Getenv("STEWARD_API_KEY") != "" {
		conf.ApiKey = os.Getenv("STEWARD_API_KEY")
	}

	err = validate(conf)
	if err != nil {
		return nil, err
	}

	return conf, nil
}

func readFileFromSource(confSourceType string) (*Configuration, error) {

	switch confSourceType {
	case GitSourceType:
		url := os.Getenv("STEWARD_CONF_GIT_URL")
		privateKeyFilepath := os.Getenv("STEWARD_CONF_GIT_PRIVATE_KEY_FILEPATH")
		passphrase := os.Getenv("STEWARD_CONF_GIT_PASSPHRASE")
		confFilepath := os.Getenv("STEWARD_CONF_GIT_FILEPATH")

		if privateKeyFilepath != "" {
			privateKeyFilepath = addHomeDirPrefix(privateKeyFilepath)
		}

		if confFilepath == "" {
			return nil, errors.New("Git configuration filepath could not be empty.")
		}

		return readFileFromGitFunc(url, privateKeyFilepath, passphrase, confFilepath)
	case LocalSourceType:
		confFilepath := os.Getenv("STEWARD_CONF_LOCAL_FILEPATH")

		if len(confFilepath) <= 0 {
			confFilepath = addHomeDirPrefix(defaultConfFilepath)
		} else {
			confFilepath = addHomeDirPrefix(confFilepath)
		}

		return readFileFromLocalFunc(confFilepath)
	case "":
		return nil, errors.Errorf("STEWARD_CONF_SOURCE_TYPE should be set as \"local\" or \"git\".")
	default:
		return nil, errors.Errorf("Unknown configuration source type[%s], valid types are \"local\" and \"git\".", confSourceType)
	}
}

func validate(conf *Configuration) error {

	if conf == nil || conf == (&Configuration{}) {
		return errors.New("The configuration is empty.")
	}
	if conf.ApiKey == "" {
		return errors.New("ApiKey is not found in the configuration file.")
	}
	if conf.MailApiUrl == "" {
		return errors.New("MailApiUrl is not found in the configuration file.")
	}
	if conf.BaseUrl == "" {
		conf.BaseUrl = DefaultBaseUrl
		logrus.Infof("BaseUrl is not found in the configuration file, default url[%s] is set.", DefaultBaseUrl)
	}

	if len(conf.Standards) == 0 && conf.StandardsRepo == (git.Options{}) {
		return errors.New("Standards configuration is not found in the configuration file.")
	}

	for standardName, settings := range conf.Standards {
		if settings == nil {
			return errors.Errorf("Settings of standard[%s] is empty.", standardName)
		}
	}

	if conf.StandardsRepo != (git.Options{}) && conf.StandardsFilepath == "" {
		return errors.New("StandardsFilepath should be set along with the standards repository.")
	}

	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		conf.LogrusLevel = logrus.InfoLevel
		conf.LogLevel = "info"
	} else {
		conf.LogrusLevel = level
	}

	return nil
}
