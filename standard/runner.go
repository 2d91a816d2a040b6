package standard

import "fmt"

// Runner executes one standard against one tenant: eligibility gate,
// state fetch, then the requested modes in program order. Collaborators
// are injected so tests can substitute fakes.
type Runner struct {
	capabilities CapabilityResolver
	logs         LogSink
	alerts       AlertSink
	comparison   ComparisonStore
	baseline     BaselineStore
}

func NewRunner(capabilities CapabilityResolver,
	logs LogSink,
	alerts AlertSink,
	comparison ComparisonStore,
	baseline BaselineStore) *Runner {

	return &Runner{
		capabilities: capabilities,
		logs:         logs,
		alerts:       alerts,
		comparison:   comparison,
		baseline:     baseline,
	}
}

// Run performs one invocation. An ineligible tenant is a legitimate
// terminal state: the invocation ends successfully with no action. Only
// a failure before the mode executor, resolving capabilities or fetching
// remote state, is surfaced to the caller as an error; sub-action
// failures are captured in the result and its outcomes.
//
// Remote state is fetched exactly once. Alert and report intentionally
// observe the pre-remediation snapshot, even when remediation has just
// issued a fix in the same invocation.
func (r *Runner) Run(check Check, tenant Tenant, settings *Settings) (*Result, error) {

	surface := check.Name()
	result := newResult(tenant, surface)

	eligible, err := r.capabilities.HasCapability(tenant, surface, check.RequiredCapabilities())
	if err != nil {
		capErr := NewError(KindCapability, "resolve capabilities of tenant["+string(tenant)+"]", err)
		r.logs.Log(surface, tenant, Normalize(capErr), SeverityError)
		invocationsCounter.WithLabelValues(surface, "error").Inc()
		return result, capErr
	}
	if !eligible {
		result.Eligible = false
		r.logs.Log(surface, tenant, fmt.Sprintf("Tenant does not have the required capability to manage %s, check is skipped.", surface), SeverityInfo)
		invocationsCounter.WithLabelValues(surface, "ineligible").Inc()
		return result, nil
	}
	result.Eligible = true

	state, err := check.Fetch(tenant)
	if err != nil {
		fetchErr := err
		if _, tagged := KindOf(err); !tagged {
			fetchErr = NewError(KindFetch, "fetch state of "+surface, err)
		}
		r.logs.Log(surface, tenant, Normalize(fetchErr), SeverityError)
		invocationsCounter.WithLabelValues(surface, "error").Inc()
		return result, fetchErr
	}

	modes := settings.Modes()
	for _, mode := range AllModes() {
		if !modes.Contains(mode) {
			continue
		}

		var outcome Outcome
		switch mode {
		case ModeRemediate:
			outcome = r.remediate(check, tenant, state)
		case ModeAlert:
			outcome = r.alert(check, tenant, state, settings)
		case ModeReport:
			outcome = r.report(check, tenant, state)
		}
		result.Outcomes[mode] = outcome
		modesCounter.WithLabelValues(surface, mode.String(), outcome.Status.String()).Inc()
	}

	invocationsCounter.WithLabelValues(surface, "completed").Inc()
	return result, nil
}

// remediate issues the check's remote writes when the fetched state is
// non-compliant. Per-instance failures are logged and do not abort the
// remaining instances; a compliant state performs zero writes.
func (r *Runner) remediate(check Check, tenant Tenant, state State) Outcome {

	surface := check.Name()

	if state.Compliant() {
		r.logs.Log(surface, tenant, state.Summary(), SeverityInfo)
		return succeeded(ModeRemediate)
	}

	var firstErr error
	for _, instance := range check.Remediate(tenant, state) {
		if instance.Err != nil {
			if firstErr == nil {
				firstErr = instance.Err
			}
			r.logs.Log(surface, tenant, fmt.Sprintf("%s: %s", instance.Message, Normalize(instance.Err)), SeverityError)
			continue
		}
		r.logs.Log(surface, tenant, instance.Message, SeverityInfo)
	}

	if firstErr != nil {
		return failed(ModeRemediate, firstErr)
	}
	return succeeded(ModeRemediate)
}

// alert forwards the fetched state to the alert sink when it is
// non-compliant and logs the compliant state otherwise. Alerting never
// mutates remote state.
func (r *Runner) alert(check Check, tenant Tenant, state State, settings *Settings) Outcome {

	surface := check.Name()

	if state.Compliant() {
		r.logs.Log(surface, tenant, state.Summary(), SeverityInfo)
		return succeeded(ModeAlert)
	}

	err := r.alerts.RaiseAlert(state.Summary(), state, tenant, surface, settings.StandardId)
	if err != nil {
		alertErr := NewError(KindAlert, "raise alert for "+surface, err)
		r.logs.Log(surface, tenant, Normalize(alertErr), SeverityError)
		return failed(ModeAlert, alertErr)
	}

	r.logs.Log(surface, tenant, state.Summary(), SeverityInfo)
	return succeeded(ModeAlert)
}

// report forwards the compliance flag to both reporting stores under the
// check's reporting field name. A failing store is captured in the
// outcome without preventing the sibling store from receiving its write.
func (r *Runner) report(check Check, tenant Tenant, state State) Outcome {

	surface := check.Name()
	field := check.ReportField()
	compliant := state.Compliant()

	var firstErr error

	if err := r.comparison.SetComparisonField(field, compliant, tenant); err != nil {
		firstErr = NewError(KindReport, "set comparison field["+field+"]", err)
		r.logs.Log(surface, tenant, Normalize(firstErr), SeverityError)
	}

	if err := r.baseline.SetBaselineField(field, compliant, "bool", tenant); err != nil {
		reportErr := NewError(KindReport, "set baseline field["+field+"]", err)
		if firstErr == nil {
			firstErr = reportErr
		}
		r.logs.Log(surface, tenant, Normalize(reportErr), SeverityError)
	}

	if firstErr != nil {
		return failed(ModeReport, firstErr)
	}

	r.logs.Log(surface, tenant, fmt.Sprintf("Reported field[%s] as %t.", field, compliant), SeverityInfo)
	return succeeded(ModeReport)
}
