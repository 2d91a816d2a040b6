package standard

// Tenant identifies one managed customer organization. It is threaded
// through every remote call and is never interpreted by this package.
type Tenant string

// Capability is a license-derived permission gating whether a standard
// may act for a tenant, e.g. a subscription service plan name.
type Capability string

// Settings configures a single invocation of a standard. The three mode
// flags are independent and any combination is valid, including all
// false, which makes the invocation a no-op after the state fetch.
type Settings struct {
	Remediate bool `json:"remediate" yaml:"remediate"`
	Alert     bool `json:"alert" yaml:"alert"`
	Report    bool `json:"report" yaml:"report"`

	StandardId string `json:"standardId" yaml:"standardId"`

	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

// State is the remote snapshot a standard fetched for one tenant. It is
// read fresh on every invocation and never cached across invocations.
type State interface {
	// Compliant reports whether the fetched state already satisfies the
	// standard. Standards governing an "allow" style setting invert the
	// sense here, so a true value always reads as compliant.
	Compliant() bool

	// Summary describes the fetched state in one human readable sentence,
	// used for log lines and alert messages.
	Summary() string
}

// InstanceResult is the outcome of one remediation write against one
// remote policy instance.
type InstanceResult struct {
	Id      string
	Message string
	Err     error
}

// Check is one governed configuration rule. Implementations fetch the
// current remote state of the setting they govern and know how to write
// it back into the desired shape. Everything else, mode selection,
// eligibility, alerting, reporting and logging, is handled by Runner.
type Check interface {
	Name() string
	RequiredCapabilities() []Capability

	// ReportField is the reporting field name the compliance flag is
	// written under, distinct from the raw setting.
	ReportField() string

	Fetch(tenant Tenant) (State, error)

	// Remediate issues the remote writes that bring state into
	// compliance. Writes are isolated per instance: a failing instance is
	// reported in its result and must not abort sibling writes. Instances
	// already in the desired shape are skipped, which keeps repeated
	// remediation free of redundant mutations.
	Remediate(tenant Tenant, state State) []InstanceResult
}
