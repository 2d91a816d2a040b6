// Package alerting forwards non-compliance alerts to the control plane.
package alerting

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cloudgovern/steward/retryer"
	"github.com/cloudgovern/steward/standard"
	"github.com/pkg/errors"
)

const alertPath = "/v1/alerts"

type alertRequest struct {
	Message    string           `json:"message"`
	Payload    interface{}      `json:"payload,omitempty"`
	Tenant     standard.Tenant  `json:"tenant"`
	Standard   string           `json:"standard"`
	StandardId string           `json:"standardId,omitempty"`
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

// RaiseAlert posts one alert record. The control plane deduplicates by
// tenant and standardId, so re-raising on every non-compliant run is
// safe.
func (c *Client) RaiseAlert(message string, payload interface{}, tenant standard.Tenant, standardName, standardId string) error {

	body, err := json.Marshal(alertRequest{
		Message:    message,
		Payload:    payload,
		Tenant:     tenant,
		Standard:   standardName,
		StandardId: standardId,
	})
	if err != nil {
		return errors.Errorf("Cannot marshal alert payload: %s", err)
	}

	request, err := retryer.NewRequest(http.MethodPost, c.baseUrl+alertPath, bytes.NewReader(body))
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

	if response.StatusCode != http.StatusAccepted {

		errorMessage := "Unexpected response status: " + response.Status

		responseBody, err := io.ReadAll(response.Body)
		if err != nil {
			return errors.Errorf("%s, also could not read response body: %s", errorMessage, err)
		}
		return errors.Errorf("%s, error message: %s", errorMessage, string(responseBody))
	}

	return nil
}
