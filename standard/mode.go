package standard

// Mode is one of the three independently toggleable execution modes.
type Mode int

const (
	ModeRemediate Mode = iota
	ModeAlert
	ModeReport
)

func (m Mode) String() string {
	switch m {
	case ModeRemediate:
		return "remediate"
	case ModeAlert:
		return "alert"
	case ModeReport:
		return "report"
	default:
		return "unknown"
	}
}

// AllModes returns the modes in their conventional execution order.
// Remediation runs first so that a fix is already issued by the time
// alert and report run, even though both observe the pre-remediation
// snapshot.
func AllModes() []Mode {
	return []Mode{ModeRemediate, ModeAlert, ModeReport}
}

// ModeSet is the set of modes requested for one invocation.
type ModeSet map[Mode]struct{}

// Modes materializes the three settings flags into an explicit mode set.
func (s *Settings) Modes() ModeSet {
	modes := make(ModeSet, 3)
	if s.Remediate {
		modes[ModeRemediate] = struct{}{}
	}
	if s.Alert {
		modes[ModeAlert] = struct{}{}
	}
	if s.Report {
		modes[ModeReport] = struct{}{}
	}
	return modes
}

func (ms ModeSet) Contains(mode Mode) bool {
	_, contains := ms[mode]
	return contains
}

func (ms ModeSet) IsEmpty() bool {
	return len(ms) == 0
}
