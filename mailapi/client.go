// Package mailapi is the HTTP client for the mail service admin API,
// the remote source of truth every standard reads from and remediates
// against.
package mailapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudgovern/steward/retryer"
	"github.com/cloudgovern/steward/sharing"
	"github.com/cloudgovern/steward/standard"
	"github.com/pkg/errors"
)

const (
	sharingPoliciesPath = "/admin/v1/tenants/%s/sharing/policies"
	sharingPolicyPath   = "/admin/v1/tenants/%s/sharing/policies/%s"
	capabilitiesPath    = "/admin/v1/tenants/%s/licensing/capabilities"
)

type Client struct {
	baseUrl string
	apiKey  string
	retryer *retryer.Retryer
}

func NewClient(baseUrl, apiKey string) *Client {
	return &Client{
		baseUrl: baseUrl,
		apiKey:  apiKey,
		retryer: &retryer.Retryer{},
	}
}

type policyListResponse struct {
	Policies []sharing.Policy `json:"policies"`
}

// ListSharingPolicies reads all sharing policies of the tenant.
func (c *Client) ListSharingPolicies(tenant standard.Tenant) ([]sharing.Policy, error) {

	url := c.baseUrl + fmt.Sprintf(sharingPoliciesPath, tenant)

	request, err := retryer.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.addHeaders(request)

	response, err := c.retryer.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, unexpectedStatusError(response)
	}

	listResponse := &policyListResponse{}
	err = json.NewDecoder(response.Body).Decode(listResponse)
	if err != nil {
		return nil, errors.Errorf("Cannot parse sharing policy list of tenant[%s]: %s", tenant, err)
	}

	return listResponse.Policies, nil
}

type policyUpdateRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdateSharingPolicy writes the enabled flag of exactly one sharing
// policy instance.
func (c *Client) UpdateSharingPolicy(tenant standard.Tenant, policyId string, enabled bool) error {

	body, err := json.Marshal(policyUpdateRequest{Enabled: enabled})
	if err != nil {
		return errors.Errorf("Cannot marshal sharing policy update: %s", err)
	}

	url := c.baseUrl + fmt.Sprintf(sharingPolicyPath, tenant, policyId)

	request, err := retryer.NewRequest(http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.addHeaders(request)
	request.Header.Add("Content-Type", "application/json; charset=UTF-8")

	response, err := c.retryer.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusNoContent {
		return unexpectedStatusError(response)
	}

	return nil
}

type capabilitiesResponse struct {
	Capabilities []standard.Capability `json:"capabilities"`
}

// Capabilities reads the license-derived capabilities of the tenant's
// subscription.
func (c *Client) Capabilities(tenant standard.Tenant) ([]standard.Capability, error) {

	url := c.baseUrl + fmt.Sprintf(capabilitiesPath, tenant)

	request, err := retryer.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.addHeaders(request)

	response, err := c.retryer.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, unexpectedStatusError(response)
	}

	capabilities := &capabilitiesResponse{}
	err = json.NewDecoder(response.Body).Decode(capabilities)
	if err != nil {
		return nil, errors.Errorf("Cannot parse capabilities of tenant[%s]: %s", tenant, err)
	}

	return capabilities.Capabilities, nil
}

func (c *Client) addHeaders(request *retryer.Request) {
	request.Header.Add("Authorization", "ApiKey "+c.apiKey)
}

func unexpectedStatusError(response *http.Response) error {

	errorMessage := "Unexpected response status: " + response.Status

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Errorf("%s, also could not read response body: %s", errorMessage, err)
	}
	return errors.Errorf("%s, error message: %s", errorMessage, string(body))
}
