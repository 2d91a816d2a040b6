package queue

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cloudgovern/steward/conf"
	"github.com/cloudgovern/steward/git"
	"github.com/cloudgovern/steward/retryer"
	"github.com/cloudgovern/steward/standard"
	"github.com/cloudgovern/steward/worker_pool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var UserAgentHeader string

const (
	pollingWaitIntervalInMillis = 100
	visibilityTimeoutInSec      = 30
	maxNumberOfMessages         = 10

	successRefreshPeriod = time.Minute
	errorRefreshPeriod   = time.Minute

	standardsRefreshPeriod = time.Minute
)

const credentialsPath = "/v1/agents/steward/credentials"

type Processor interface {
	Start() error
	Stop() error
}

type processor struct {
	workerPool worker_pool.WorkerPool
	pollers    map[string]Poller

	retryer *retryer.Retryer

	configuration  *conf.Configuration
	messageHandler MessageHandler
	repositories   *git.Repositories

	successRefreshPeriod time.Duration
	errorRefreshPeriod   time.Duration

	isRunning   bool
	isRunningWg *sync.WaitGroup
	startStopMu *sync.Mutex
	quit        chan struct{}
}

func NewProcessor(configuration *conf.Configuration,
	runner *standard.Runner,
	checks map[string]standard.Check) Processor {

	if configuration.PollerConf.MaxNumberOfMessages <= 0 {
		logrus.Infof("Max number of messages should be greater than 0, default value[%d] is set.", maxNumberOfMessages)
		configuration.PollerConf.MaxNumberOfMessages = maxNumberOfMessages
	}

	if configuration.PollerConf.PollingWaitIntervalInMillis <= 0 {
		logrus.Infof("Polling wait interval should be greater than 0, default value[%d ms.] is set.", pollingWaitIntervalInMillis)
		configuration.PollerConf.PollingWaitIntervalInMillis = pollingWaitIntervalInMillis
	}

	if configuration.PollerConf.VisibilityTimeoutInSeconds < 15 {
		logrus.Infof("Visibility timeout cannot be lesser than 15 seconds or greater than 12 hours, default value[%d s.] is set.", visibilityTimeoutInSec)
		configuration.PollerConf.VisibilityTimeoutInSeconds = visibilityTimeoutInSec
	}

	return &processor{
		successRefreshPeriod: successRefreshPeriod,
		errorRefreshPeriod:   errorRefreshPeriod,
		workerPool:           worker_pool.New(&configuration.PoolConf),
		configuration:        configuration,
		messageHandler:       NewMessageHandler(runner, checks, configuration.Standards),
		repositories:         git.NewRepositories(),
		pollers:              make(map[string]Poller),
		quit:                 make(chan struct{}),
		isRunning:            false,
		isRunningWg:          &sync.WaitGroup{},
		startStopMu:          &sync.Mutex{},
		retryer:              &retryer.Retryer{},
	}
}

func (qp *processor) Start() error {
	defer qp.startStopMu.Unlock()
	qp.startStopMu.Lock()

	if qp.isRunning {
		return errors.New("Processor is already running.")
	}

	logrus.Infof("Processor is starting.")
	agentCredentials, err := qp.receiveCredentials()
	if err != nil {
		logrus.Errorf("Processor could not get initial queue credentials and will terminate.")
		return err
	}

	if qp.configuration.StandardsRepo != (git.Options{}) {
		err = qp.repositories.Download(&qp.configuration.StandardsRepo)
		if err != nil {
			logrus.Errorf("Processor could not clone the standards repository and will terminate.")
			return err
		}

		err = qp.reloadStandards()
		if err != nil {
			return err
		}

		qp.isRunningWg.Add(1) // one for pulling the standards repository
		go qp.startPullingStandards(standardsRefreshPeriod)
	}

	qp.workerPool.Start()
	qp.refreshPollers(agentCredentials)
	qp.isRunningWg.Add(1) // one for receiving credentials
	go qp.run()

	qp.isRunning = true
	return nil
}

func (qp *processor) Stop() error {
	defer qp.startStopMu.Unlock()
	qp.startStopMu.Lock()

	if !qp.isRunning {
		return errors.New("Processor is not running.")
	}

	logrus.Infof("Processor is stopping.")

	close(qp.quit)
	qp.isRunningWg.Wait()

	qp.workerPool.Stop()
	qp.repositories.RemoveAll()

	qp.isRunning = false
	logrus.Infof("Processor has stopped.")
	return nil
}

func (qp *processor) receiveCredentials() (*credentials, error) {

	credentialsUrl := qp.configuration.BaseUrl + credentialsPath

	request, err := retryer.NewRequest(http.MethodGet, credentialsUrl, nil)
	if err != nil {
		return nil, err
	}

	request.Header.Add("Authorization", "ApiKey "+qp.configuration.ApiKey)
	request.Header.Add("X-Steward-Client-Info", UserAgentHeader)

	query := request.URL.Query()
	for _, poller := range qp.pollers {
		queueProperties := poller.QueueProvider().Properties()
		query.Add(
			queueProperties.Region(),
			strconv.FormatInt(queueProperties.ExpireTimeMillis(), 10),
		)
	}
	request.URL.RawQuery = query.Encode()

	response, err := qp.retryer.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		return nil, errors.Errorf("Queue credentials could not be received, status: %s, message: %s", response.Status, body)
	}

	agentCredentials := &credentials{}
	err = json.NewDecoder(response.Body).Decode(agentCredentials)
	if err != nil {
		return nil, err
	}

	return agentCredentials, nil
}

func (qp *processor) addPoller(queueProperties Properties, agentId string) (Poller, error) {

	queueProvider, err := NewSqsProvider(queueProperties)
	if err != nil {
		return nil, err
	}

	poller := newPollerFunc(
		qp.workerPool,
		queueProvider,
		qp.messageHandler,
		qp.configuration,
		agentId,
	)
	qp.pollers[queueProvider.Properties().Url()] = poller
	return poller, nil
}

func (qp *processor) removePoller(queueUrl string) Poller {
	poller := qp.pollers[queueUrl]
	delete(qp.pollers, queueUrl)
	return poller
}

func (qp *processor) refreshPollers(agentCredentials *credentials) {
	pollerKeys := make(map[string]struct{}, len(qp.pollers))
	for key := range qp.pollers {
		pollerKeys[key] = struct{}{}
	}

	for _, queueProperties := range agentCredentials.QueuePropertiesList {
		queueUrl := queueProperties.Url()

		// refresh existing pollers if there comes a new AssumeRoleResult
		if poller, contains := qp.pollers[queueUrl]; contains {
			isTokenRefreshed := queueProperties.AssumeRoleResult != AssumeRoleResult{}
			if isTokenRefreshed {
				err := poller.RefreshClient(queueProperties.AssumeRoleResult)
				if err != nil {
					logrus.Errorf("Client of queue provider[%s] could not be refreshed.", queueUrl)
				}
				logrus.Infof("Client of queue provider[%s] has refreshed.", queueUrl)
			}
			delete(pollerKeys, queueUrl)

			// add new pollers
		} else {
			poller, err := qp.addPoller(queueProperties, agentCredentials.AgentId)
			if err != nil {
				logrus.Errorf("Poller[%s] could not be added: %s.", queueUrl, err)
				continue
			}
			poller.Start()
			logrus.Debugf("Poller[%s] is added.", queueUrl)
		}
	}

	// remove unnecessary pollers
	for queueUrl := range pollerKeys {
		qp.removePoller(queueUrl).Stop()
		logrus.Debugf("Poller[%s] is removed.", queueUrl)
	}

	if len(agentCredentials.QueuePropertiesList) != 0 { // pick first Properties to refresh waitPeriods
		qp.successRefreshPeriod = time.Second * time.Duration(agentCredentials.QueuePropertiesList[0].Configuration.SuccessRefreshPeriodInSeconds)
		qp.errorRefreshPeriod = time.Second * time.Duration(agentCredentials.QueuePropertiesList[0].Configuration.ErrorRefreshPeriodInSeconds)
	}
}

func (qp *processor) run() {

	logrus.Infof("Processor has started to run. Refresh credentials period: %s.", qp.successRefreshPeriod.String())

	ticker := time.NewTicker(qp.successRefreshPeriod)

	for {
		select {
		case <-qp.quit:
			ticker.Stop()
			for _, poller := range qp.pollers {
				poller.Stop()
			}
			qp.isRunningWg.Done()
			return
		case <-ticker.C:
			ticker.Stop()
			agentCredentials, err := qp.receiveCredentials()
			if err != nil {
				logrus.Warnf("Refresh cycle of processor has failed: %s", err)
				logrus.Debugf("Will refresh credentials after %s", qp.errorRefreshPeriod.String())
				ticker = time.NewTicker(qp.errorRefreshPeriod)
				break
			}
			qp.refreshPollers(agentCredentials)

			ticker = time.NewTicker(qp.successRefreshPeriod)
		}
	}
}

func (qp *processor) reloadStandards() error {

	repository, err := qp.repositories.Get(qp.configuration.StandardsRepo.Url)
	if err != nil {
		return err
	}

	repository.RLock()
	standards, err := conf.ReadStandardsFile(filepath.Join(repository.Path, qp.configuration.StandardsFilepath))
	repository.RUnlock()

	if err != nil {
		return errors.Errorf("Standards could not be read from repository[%s]: %s", qp.configuration.StandardsRepo.Url, err)
	}

	qp.messageHandler.UpdateSettings(standards)
	logrus.Debugf("Standards have been reloaded from repository[%s].", qp.configuration.StandardsRepo.Url)
	return nil
}

func (qp *processor) startPullingStandards(pullPeriod time.Duration) {

	logrus.Infof("Standards repository will be updated in every %s.", pullPeriod.String())

	ticker := time.NewTicker(pullPeriod)

	for {
		select {
		case <-qp.quit:
			ticker.Stop()
			logrus.Info("The standards repository will be removed.")
			qp.isRunningWg.Done()
			return
		case <-ticker.C:
			ticker.Stop()
			qp.repositories.PullAll()
			err := qp.reloadStandards()
			if err != nil {
				logrus.Warnf("%s", err.Error())
			}
			ticker = time.NewTicker(pullPeriod)
		}
	}
}
