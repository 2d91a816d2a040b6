// Package sharing governs the tenant-wide calendar sharing setting of
// the mail service. The check inspects the sharing policy marked as
// default; named exception policies are deliberately left alone so that
// administrators can carve out exceptions without tripping the check.
package sharing

import (
	"github.com/cloudgovern/steward/standard"
)

const (
	// CheckName is the logging surface and registry key of the check.
	CheckName = "CalendarSharing"

	reportField = "CalendarSharingDisabled"
)

// Policy is one sharing policy instance of the remote mail service.
type Policy struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
	Enabled bool   `json:"enabled"`
}

// PolicyClient is the remote mail service admin surface the check
// consumes.
type PolicyClient interface {
	ListSharingPolicies(tenant standard.Tenant) ([]Policy, error)
	UpdateSharingPolicy(tenant standard.Tenant, policyId string, enabled bool) error
}

// State is the fetched snapshot of the default sharing policy.
type State struct {
	// Policies holds the instances flagged as default. The remote service
	// should yield exactly one, but each is still remediated in isolation
	// in case the filter ever matches more.
	Policies []Policy

	// Enabled is true when any default instance currently permits
	// calendar sharing.
	Enabled bool
}

func (s *State) Compliant() bool {
	return !s.Enabled
}

func (s *State) Summary() string {
	if s.Enabled {
		return "Calendar sharing with external users is enabled."
	}
	return "Calendar sharing with external users is disabled."
}

// Check implements the calendar sharing standard.
type Check struct {
	client PolicyClient
}

func NewCheck(client PolicyClient) *Check {
	return &Check{client: client}
}

func (c *Check) Name() string {
	return CheckName
}

// RequiredCapabilities lists the mail service plans under which the
// sharing policy surface exists at all.
func (c *Check) RequiredCapabilities() []standard.Capability {
	return []standard.Capability{"EXCHANGE_S_STANDARD", "EXCHANGE_S_ENTERPRISE"}
}

func (c *Check) ReportField() string {
	return reportField
}

// Fetch reads all sharing policies of the tenant and keeps only the
// instances flagged as default.
func (c *Check) Fetch(tenant standard.Tenant) (standard.State, error) {

	policies, err := c.client.ListSharingPolicies(tenant)
	if err != nil {
		return nil, standard.NewError(standard.KindFetch, "list sharing policies of tenant["+string(tenant)+"]", err)
	}

	state := &State{}
	for _, policy := range policies {
		if !policy.Default {
			continue
		}
		state.Policies = append(state.Policies, policy)
		if policy.Enabled {
			state.Enabled = true
		}
	}

	return state, nil
}

// Remediate disables every default instance that still permits sharing,
// one write per instance. Already disabled instances get no write, so a
// repeated remediation after a successful disable performs zero
// mutations.
func (c *Check) Remediate(tenant standard.Tenant, st standard.State) []standard.InstanceResult {

	state := st.(*State)

	var results []standard.InstanceResult
	for _, policy := range state.Policies {
		if !policy.Enabled {
			continue
		}

		result := standard.InstanceResult{Id: policy.Id}
		err := c.client.UpdateSharingPolicy(tenant, policy.Id, false)
		if err != nil {
			result.Message = "Could not disable calendar sharing for policy[" + policy.Name + "]"
			result.Err = standard.NewError(standard.KindWrite, "update sharing policy["+policy.Id+"]", err)
		} else {
			result.Message = "Successfully disabled calendar sharing for policy[" + policy.Name + "]."
		}
		results = append(results, result)
	}

	return results
}
