package standard

type logEntry struct {
	Surface  string
	Tenant   Tenant
	Message  string
	Severity Severity
}

type mockLogSink struct {
	Entries []logEntry
}

func (m *mockLogSink) Log(surface string, tenant Tenant, message string, severity Severity) {
	m.Entries = append(m.Entries, logEntry{surface, tenant, message, severity})
}

func (m *mockLogSink) MessagesWithSeverity(severity Severity) []string {
	var messages []string
	for _, entry := range m.Entries {
		if entry.Severity == severity {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

type mockCapabilityResolver struct {
	HasCapabilityFunc func(tenant Tenant, standardName string, required []Capability) (bool, error)
	CallCount         int
}

func (m *mockCapabilityResolver) HasCapability(tenant Tenant, standardName string, required []Capability) (bool, error) {
	m.CallCount++
	if m.HasCapabilityFunc != nil {
		return m.HasCapabilityFunc(tenant, standardName, required)
	}
	return true, nil
}

type raisedAlert struct {
	Message    string
	Payload    interface{}
	Tenant     Tenant
	Standard   string
	StandardId string
}

type mockAlertSink struct {
	RaiseAlertFunc func() error
	Alerts         []raisedAlert
}

func (m *mockAlertSink) RaiseAlert(message string, payload interface{}, tenant Tenant, standardName, standardId string) error {
	if m.RaiseAlertFunc != nil {
		if err := m.RaiseAlertFunc(); err != nil {
			return err
		}
	}
	m.Alerts = append(m.Alerts, raisedAlert{message, payload, tenant, standardName, standardId})
	return nil
}

type fieldWrite struct {
	Field     string
	Value     interface{}
	ValueType string
	Tenant    Tenant
}

type mockComparisonStore struct {
	SetComparisonFieldFunc func() error
	Writes                 []fieldWrite
}

func (m *mockComparisonStore) SetComparisonField(field string, value interface{}, tenant Tenant) error {
	if m.SetComparisonFieldFunc != nil {
		if err := m.SetComparisonFieldFunc(); err != nil {
			return err
		}
	}
	m.Writes = append(m.Writes, fieldWrite{Field: field, Value: value, Tenant: tenant})
	return nil
}

type mockBaselineStore struct {
	SetBaselineFieldFunc func() error
	Writes               []fieldWrite
}

func (m *mockBaselineStore) SetBaselineField(field string, value interface{}, valueType string, tenant Tenant) error {
	if m.SetBaselineFieldFunc != nil {
		if err := m.SetBaselineFieldFunc(); err != nil {
			return err
		}
	}
	m.Writes = append(m.Writes, fieldWrite{Field: field, Value: value, ValueType: valueType, Tenant: tenant})
	return nil
}

type mockState struct {
	compliant bool
	summary   string
}

func (m *mockState) Compliant() bool {
	return m.compliant
}

func (m *mockState) Summary() string {
	return m.summary
}

type mockCheck struct {
	FetchFunc     func(tenant Tenant) (State, error)
	RemediateFunc func(tenant Tenant, state State) []InstanceResult

	FetchCount     int
	RemediateCount int
}

func (m *mockCheck) Name() string {
	return "MockStandard"
}

func (m *mockCheck) RequiredCapabilities() []Capability {
	return []Capability{"MOCK_CAPABILITY"}
}

func (m *mockCheck) ReportField() string {
	return "MockStandardCompliant"
}

func (m *mockCheck) Fetch(tenant Tenant) (State, error) {
	m.FetchCount++
	if m.FetchFunc != nil {
		return m.FetchFunc(tenant)
	}
	return &mockState{compliant: true, summary: "The mock setting is disabled."}, nil
}

func (m *mockCheck) Remediate(tenant Tenant, state State) []InstanceResult {
	m.RemediateCount++
	if m.RemediateFunc != nil {
		return m.RemediateFunc(tenant, state)
	}
	return nil
}

type runnerFixture struct {
	runner       *Runner
	capabilities *mockCapabilityResolver
	logs         *mockLogSink
	alerts       *mockAlertSink
	comparison   *mockComparisonStore
	baseline     *mockBaselineStore
}

func newRunnerFixture() *runnerFixture {
	fixture := &runnerFixture{
		capabilities: &mockCapabilityResolver{},
		logs:         &mockLogSink{},
		alerts:       &mockAlertSink{},
		comparison:   &mockComparisonStore{},
		baseline:     &mockBaselineStore{},
	}
	fixture.runner = NewRunner(
		fixture.capabilities,
		fixture.logs,
		fixture.alerts,
		fixture.comparison,
		fixture.baseline,
	)
	return fixture
}
