package queue

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	JobInitial int32 = iota
	JobExecuting
	JobFinished
	JobError
)

// sqsJob wraps one queue message into a worker pool job. A message that
// fails to handle is left in the queue; its visibility timeout expires
// and the control plane redelivers it later, which is safe because
// invocations are idempotent.
type sqsJob struct {
	queueProvider  SQSProvider
	messageHandler MessageHandler
	message        sqs.Message

	apiKey  string
	baseUrl string
	agentId string

	state        int32
	executeMutex *sync.Mutex
}

func newJob(queueProvider SQSProvider,
	messageHandler MessageHandler,
	message sqs.Message,
	apiKey, baseUrl, agentId string) *sqsJob {

	return &sqsJob{
		queueProvider:  queueProvider,
		messageHandler: messageHandler,
		message:        message,
		apiKey:         apiKey,
		baseUrl:        baseUrl,
		agentId:        agentId,
		state:          JobInitial,
		executeMutex:   &sync.Mutex{},
	}
}

func (j *sqsJob) Id() string {
	return *j.message.MessageId
}

func (j *sqsJob) setStateToExecuting() bool {
	defer j.executeMutex.Unlock()
	j.executeMutex.Lock()

	if atomic.LoadInt32(&j.state) != JobInitial {
		return false
	}
	atomic.StoreInt32(&j.state, JobExecuting)
	return true
}

func (j *sqsJob) Execute() error {

	if !j.setStateToExecuting() {
		return errors.New("Job[" + j.Id() + "] is already executing.")
	}

	start := time.Now()
	result, err := j.messageHandler.Handle(j.message)
	if err != nil {
		atomic.StoreInt32(&j.state, JobError)
		return err
	}
	took := time.Since(start)
	logrus.Debugf("Job[%s] has been processed and it took %f seconds.", j.Id(), took.Seconds())

	err = SendResultFunc(result, j.apiKey, j.baseUrl)
	if err != nil {
		// result delivery is best effort, the authoritative record went
		// through the reporting sinks already
		logrus.Warnf("Result of job[%s] could not be sent: %s", j.Id(), err.Error())
	}

	err = j.queueProvider.DeleteMessage(&j.message)
	if err != nil {
		atomic.StoreInt32(&j.state, JobError)
		return err
	}
	logrus.Debugf("Message of job[%s] has been deleted.", j.Id())

	atomic.StoreInt32(&j.state, JobFinished)
	return nil
}
