package queue

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cloudgovern/steward/retryer"
	"github.com/pkg/errors"
)

const resultPath = "/v1/agents/steward/executionResult"

var SendResultFunc = SendResult

var resultClient = &retryer.Retryer{}

// ResultPayload is the execution summary reported back to the control
// plane after a check request has been handled.
type ResultPayload struct {
	IsSuccessful   bool              `json:"isSuccessful"`
	RequestId      string            `json:"requestId,omitempty"`
	Tenant         string            `json:"tenant,omitempty"`
	Standard       string            `json:"standard,omitempty"`
	Eligible       bool              `json:"eligible"`
	Outcomes       map[string]string `json:"outcomes,omitempty"`
	FailureMessage string            `json:"failureMessage,omitempty"`
}

func SendResult(resultPayload *ResultPayload, apiKey, baseUrl string) error {

	body, err := json.Marshal(resultPayload)
	if err != nil {
		return errors.Errorf("Cannot marshal result payload: %s", err)
	}

	request, err := retryer.NewRequest(http.MethodPost, baseUrl+resultPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Add("Authorization", "ApiKey "+apiKey)
	request.Header.Add("Content-Type", "application/json; charset=UTF-8")

	response, err := resultClient.Do(request)
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
