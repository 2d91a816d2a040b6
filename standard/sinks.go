package standard

// Severity of a log entry emitted through the LogSink.
type Severity string

const (
	SeverityInfo  Severity = "Info"
	SeverityError Severity = "Error"
)

// CapabilityResolver answers whether a tenant's subscription includes
// any of the capabilities a standard requires.
type CapabilityResolver interface {
	HasCapability(tenant Tenant, standardName string, required []Capability) (bool, error)
}

// LogSink receives one structured entry per meaningful branch of an
// invocation, tagged with the logging surface of the emitting standard.
type LogSink interface {
	Log(surface string, tenant Tenant, message string, severity Severity)
}

// AlertSink receives alert records for non-compliant tenants.
type AlertSink interface {
	RaiseAlert(message string, payload interface{}, tenant Tenant, standardName, standardId string) error
}

// ComparisonStore records the compliance flag for drift comparison.
type ComparisonStore interface {
	SetComparisonField(field string, value interface{}, tenant Tenant) error
}

// BaselineStore records the compliance flag in the baseline assessment.
type BaselineStore interface {
	SetBaselineField(field string, value interface{}, valueType string, tenant Tenant) error
}
