package standard

// Status of one sub-action within an invocation.
type Status int

const (
	StatusSkipped Status = iota
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the per-sub-action result. It is not persisted by this
// package, only logged and forwarded to the caller.
type Outcome struct {
	Mode   Mode
	Status Status
	Err    error
}

func skipped(mode Mode) Outcome {
	return Outcome{Mode: mode, Status: StatusSkipped}
}

func succeeded(mode Mode) Outcome {
	return Outcome{Mode: mode, Status: StatusSuccess}
}

func failed(mode Mode, err error) Outcome {
	return Outcome{Mode: mode, Status: StatusFailed, Err: err}
}

// Result describes one completed invocation.
type Result struct {
	Tenant   Tenant
	Standard string
	Eligible bool
	Outcomes map[Mode]Outcome
}

func newResult(tenant Tenant, standardName string) *Result {
	outcomes := make(map[Mode]Outcome, 3)
	for _, mode := range AllModes() {
		outcomes[mode] = skipped(mode)
	}
	return &Result{
		Tenant:   tenant,
		Standard: standardName,
		Outcomes: outcomes,
	}
}

// Failed reports whether any executed sub-action failed.
func (r *Result) Failed() bool {
	for _, outcome := range r.Outcomes {
		if outcome.Status == StatusFailed {
			return true
		}
	}
	return false
}
