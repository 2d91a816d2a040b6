// Package reporting writes compliance flags to the control plane's
// comparison and baseline field stores.
package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cloudgovern/steward/retryer"
	"github.com/cloudgovern/steward/standard"
	"github.com/pkg/errors"
)

const (
	comparisonFieldPath = "/v1/tenants/%s/fields/comparison"
	baselineFieldPath   = "/v1/tenants/%s/fields/baseline"
)

type fieldRequest struct {
	Field     string      `json:"field"`
	Value     interface{} `json:"value"`
	ValueType string      `json:"valueType,omitempty"`
}

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

// SetComparisonField records the field value used for drift comparison
// between runs.
func (c *Client) SetComparisonField(field string, value interface{}, tenant standard.Tenant) error {
	return c.setField(fmt.Sprintf(comparisonFieldPath, tenant), fieldRequest{
		Field: field,
		Value: value,
	})
}

// SetBaselineField records the field value in the tenant's baseline
// assessment.
func (c *Client) SetBaselineField(field string, value interface{}, valueType string, tenant standard.Tenant) error {
	return c.setField(fmt.Sprintf(baselineFieldPath, tenant), fieldRequest{
		Field:     field,
		Value:     value,
		ValueType: valueType,
	})
}

func (c *Client) setField(path string, field fieldRequest) error {

	body, err := json.Marshal(field)
	if err != nil {
		return errors.Errorf("Cannot marshal field payload: %s", err)
	}

	request, err := retryer.NewRequest(http.MethodPost, c.baseUrl+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Add("Authorization", "ApiKey "+c.apiKey)
	request.Header.Add("Content-Type", "application/json; charset=UTF-8")

	response, err := c.retryer.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusAccepted {

		errorMessage := "Unexpected response status: " + response.Status

		responseBody, err := io.ReadAll(response.Body)
		if err != nil {
			return errors.Errorf("%s, also could not read response body: %s", errorMessage, err)
		}
		return errors.Errorf("%s, error message: %s", errorMessage, string(responseBody))
	}

	return nil
}
