package queue

import (
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/cloudgovern/steward/conf"
	"github.com/cloudgovern/steward/standard"
	"github.com/cloudgovern/steward/worker_pool"
)

var mockQueueProperties = Properties{
	AssumeRoleResult: AssumeRoleResult{
		Credentials: Credentials{
			AccessKeyId:      "accessKeyId",
			SecretAccessKey:  "secretAccessKey",
			SessionToken:     "sessionToken",
			ExpireTimeMillis: 123456789,
		},
	},
	Configuration: Configuration{
		SuccessRefreshPeriodInSeconds: 60,
		ErrorRefreshPeriodInSeconds:   60,
		Region:                        "us-west-2",
		Url:                           "https://sqs.us-west-2.example.com/stewardQueue",
	},
}

type MockQueueProvider struct {
	ChangeMessageVisibilityFunc func(message *sqs.Message, visibilityTimeout int64) error
	DeleteMessageFunc           func(message *sqs.Message) error
	ReceiveMessageFunc          func(numOfMessage int64, visibilityTimeout int64) ([]*sqs.Message, error)
	RefreshClientFunc           func(assumeRoleResult AssumeRoleResult) error
	PropertiesFunc              func() Properties
	IsTokenExpiredFunc          func() bool

	DeletedMessages []*sqs.Message
}

func NewMockQueueProvider() *MockQueueProvider {
	return &MockQueueProvider{}
}

func (mqp *MockQueueProvider) ChangeMessageVisibility(message *sqs.Message, visibilityTimeout int64) error {
	if mqp.ChangeMessageVisibilityFunc != nil {
		return mqp.ChangeMessageVisibilityFunc(message, visibilityTimeout)
	}
	return nil
}

func (mqp *MockQueueProvider) DeleteMessage(message *sqs.Message) error {
	if mqp.DeleteMessageFunc != nil {
		return mqp.DeleteMessageFunc(message)
	}
	mqp.DeletedMessages = append(mqp.DeletedMessages, message)
	return nil
}

func (mqp *MockQueueProvider) ReceiveMessage(numOfMessage int64, visibilityTimeout int64) ([]*sqs.Message, error) {
	if mqp.ReceiveMessageFunc != nil {
		return mqp.ReceiveMessageFunc(numOfMessage, visibilityTimeout)
	}
	return nil, nil
}

func (mqp *MockQueueProvider) RefreshClient(assumeRoleResult AssumeRoleResult) error {
	if mqp.RefreshClientFunc != nil {
		return mqp.RefreshClientFunc(assumeRoleResult)
	}
	return nil
}

func (mqp *MockQueueProvider) Properties() Properties {
	if mqp.PropertiesFunc != nil {
		return mqp.PropertiesFunc()
	}
	return mockQueueProperties
}

func (mqp *MockQueueProvider) IsTokenExpired() bool {
	if mqp.IsTokenExpiredFunc != nil {
		return mqp.IsTokenExpiredFunc()
	}
	return false
}

type MockWorkerPool struct {
	StartFunc            func() error
	StopFunc             func() error
	SubmitFunc           func(job worker_pool.Job) (bool, error)
	AvailableWorkersFunc func() int32
}

func NewMockWorkerPool() *MockWorkerPool {
	return &MockWorkerPool{}
}

func (mwp *MockWorkerPool) Start() error {
	if mwp.StartFunc != nil {
		return mwp.StartFunc()
	}
	return nil
}

func (mwp *MockWorkerPool) Stop() error {
	if mwp.StopFunc != nil {
		return mwp.StopFunc()
	}
	return nil
}

func (mwp *MockWorkerPool) Submit(job worker_pool.Job) (bool, error) {
	if mwp.SubmitFunc != nil {
		return mwp.SubmitFunc(job)
	}
	return true, nil
}

func (mwp *MockWorkerPool) AvailableWorkers() int32 {
	if mwp.AvailableWorkersFunc != nil {
		return mwp.AvailableWorkersFunc()
	}
	return 1
}

type MockMessageHandler struct {
	HandleFunc         func(message sqs.Message) (*ResultPayload, error)
	UpdateSettingsFunc func(standards map[string]*standard.Settings)
}

func (mmh *MockMessageHandler) Handle(message sqs.Message) (*ResultPayload, error) {
	if mmh.HandleFunc != nil {
		return mmh.HandleFunc(message)
	}
	return &ResultPayload{IsSuccessful: true}, nil
}

func (mmh *MockMessageHandler) UpdateSettings(standards map[string]*standard.Settings) {
	if mmh.UpdateSettingsFunc != nil {
		mmh.UpdateSettingsFunc(standards)
	}
}

type MockPoller struct {
	StartFunc         func() error
	StopFunc          func() error
	RefreshClientFunc func(assumeRoleResult AssumeRoleResult) error

	queueProvider SQSProvider
}

func NewMockPoller() *MockPoller {
	return &MockPoller{queueProvider: NewMockQueueProvider()}
}

func NewMockPollerForProcessor(workerPool worker_pool.WorkerPool,
	queueProvider SQSProvider,
	messageHandler MessageHandler,
	conf *conf.Configuration,
	agentId string) Poller {

	return &MockPoller{queueProvider: queueProvider}
}

func (mp *MockPoller) Start() error {
	if mp.StartFunc != nil {
		return mp.StartFunc()
	}
	return nil
}

func (mp *MockPoller) Stop() error {
	if mp.StopFunc != nil {
		return mp.StopFunc()
	}
	return nil
}

func (mp *MockPoller) RefreshClient(assumeRoleResult AssumeRoleResult) error {
	if mp.RefreshClientFunc != nil {
		return mp.RefreshClientFunc(assumeRoleResult)
	}
	return nil
}

func (mp *MockPoller) QueueProvider() SQSProvider {
	return mp.queueProvider
}

type nopLogSink struct{}

func (nopLogSink) Log(surface string, tenant standard.Tenant, message string, severity standard.Severity) {
}

type nopAlertSink struct{}

func (nopAlertSink) RaiseAlert(message string, payload interface{}, tenant standard.Tenant, standardName, standardId string) error {
	return nil
}

type nopFieldStore struct{}

func (nopFieldStore) SetComparisonField(field string, value interface{}, tenant standard.Tenant) error {
	return nil
}

func (nopFieldStore) SetBaselineField(field string, value interface{}, valueType string, tenant standard.Tenant) error {
	return nil
}

type staticResolver struct {
	eligible bool
	err      error
}

func (sr staticResolver) HasCapability(tenant standard.Tenant, standardName string, required []standard.Capability) (bool, error) {
	return sr.eligible, sr.err
}

type staticState struct {
	compliant bool
}

func (s staticState) Compliant() bool {
	return s.compliant
}

func (s staticState) Summary() string {
	if s.compliant {
		return "The setting is disabled."
	}
	return "The setting is enabled."
}

type testCheck struct {
	FetchFunc     func(tenant standard.Tenant) (standard.State, error)
	RemediateFunc func(tenant standard.Tenant, state standard.State) []standard.InstanceResult
}

func (tc *testCheck) Name() string {
	return "TestStandard"
}

func (tc *testCheck) RequiredCapabilities() []standard.Capability {
	return []standard.Capability{"TEST_CAPABILITY"}
}

func (tc *testCheck) ReportField() string {
	return "TestStandardCompliant"
}

func (tc *testCheck) Fetch(tenant standard.Tenant) (standard.State, error) {
	if tc.FetchFunc != nil {
		return tc.FetchFunc(tenant)
	}
	return staticState{compliant: false}, nil
}

func (tc *testCheck) Remediate(tenant standard.Tenant, state standard.State) []standard.InstanceResult {
	if tc.RemediateFunc != nil {
		return tc.RemediateFunc(tenant, state)
	}
	return nil
}

func newTestRunner() *standard.Runner {
	return standard.NewRunner(staticResolver{eligible: true}, nopLogSink{}, nopAlertSink{}, nopFieldStore{}, nopFieldStore{})
}
