package queue

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/cloudgovern/steward/standard"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newHandlerFixture(check standard.Check, settings map[string]*standard.Settings) MessageHandler {
	checks := map[string]standard.Check{}
	if check != nil {
		checks[check.Name()] = check
	}
	return NewMessageHandler(newTestRunner(), checks, settings)
}

func messageWithBody(body string) sqs.Message {
	return sqs.Message{
		MessageId: aws.String("message-1"),
		Body:      aws.String(body),
	}
}

func TestHandleMessageWithInvalidBody(t *testing.T) {

	handler := newHandlerFixture(&testCheck{}, nil)

	_, err := handler.Handle(messageWithBody("not json"))

	assert.Error(t, err)
}

func TestHandleMessageWithoutTenant(t *testing.T) {

	handler := newHandlerFixture(&testCheck{}, nil)

	_, err := handler.Handle(messageWithBody(`{"standard":"TestStandard"}`))

	assert.Error(t, err)
	assert.Equal(t, "Message[message-1] does not contain a tenant property.", err.Error())
}

func TestHandleMessageWithoutStandard(t *testing.T) {

	handler := newHandlerFixture(&testCheck{}, nil)

	_, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com"}`))

	assert.Error(t, err)
	assert.Equal(t, "Message[message-1] with tenant[contoso.example.com] does not contain a standard property.", err.Error())
}

func TestHandleMessageWithUnregisteredStandard(t *testing.T) {

	handler := newHandlerFixture(&testCheck{}, nil)

	_, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com","standard":"UnknownStandard"}`))

	assert.Error(t, err)
	assert.Equal(t, "There is no registered standard[UnknownStandard]. Message[message-1] will be ignored.", err.Error())
}

func TestHandleMessageWithoutAnySettings(t *testing.T) {

	handler := newHandlerFixture(&testCheck{}, nil)

	_, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com","standard":"TestStandard"}`))

	assert.Error(t, err)
	assert.Equal(t, "There are no settings configured for standard[TestStandard]. Message[message-1] will be ignored.", err.Error())
}

func TestHandleMessageUsesConfiguredSettings(t *testing.T) {

	remediated := false
	check := &testCheck{
		RemediateFunc: func(tenant standard.Tenant, state standard.State) []standard.InstanceResult {
			remediated = true
			return nil
		},
	}
	settings := map[string]*standard.Settings{
		"TestStandard": {Remediate: true},
	}
	handler := newHandlerFixture(check, settings)

	result, err := handler.Handle(messageWithBody(`{"requestId":"req-1","tenant":"contoso.example.com","standard":"TestStandard"}`))

	assert.NoError(t, err)
	assert.True(t, remediated)
	assert.True(t, result.IsSuccessful)
	assert.True(t, result.Eligible)
	assert.Equal(t, "req-1", result.RequestId)
	assert.Equal(t, "contoso.example.com", result.Tenant)
	assert.Equal(t, "TestStandard", result.Standard)
	assert.Equal(t, map[string]string{
		"remediate": "success",
		"alert":     "skipped",
		"report":    "skipped",
	}, result.Outcomes)
}

func TestHandleMessageSettingsOverrideTakesPrecedence(t *testing.T) {

	remediated := false
	check := &testCheck{
		RemediateFunc: func(tenant standard.Tenant, state standard.State) []standard.InstanceResult {
			remediated = true
			return nil
		},
	}
	settings := map[string]*standard.Settings{
		"TestStandard": {Remediate: true},
	}
	handler := newHandlerFixture(check, settings)

	result, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com","standard":"TestStandard","settings":{"report":true}}`))

	assert.NoError(t, err)
	assert.False(t, remediated)
	assert.Equal(t, "skipped", result.Outcomes["remediate"])
	assert.Equal(t, "success", result.Outcomes["report"])
}

func TestHandleMessageWithFailedInvocation(t *testing.T) {

	check := &testCheck{
		FetchFunc: func(tenant standard.Tenant) (standard.State, error) {
			return nil, standard.NewError(standard.KindFetch, "list test settings", errors.New("status 503"))
		},
	}
	settings := map[string]*standard.Settings{
		"TestStandard": {Report: true},
	}
	handler := newHandlerFixture(check, settings)

	result, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com","standard":"TestStandard"}`))

	assert.NoError(t, err)
	assert.False(t, result.IsSuccessful)
	assert.Contains(t, result.FailureMessage, "fetch error: list test settings: status 503")
}

func TestHandleMessageWithFailedOutcome(t *testing.T) {

	check := &testCheck{
		RemediateFunc: func(tenant standard.Tenant, state standard.State) []standard.InstanceResult {
			return []standard.InstanceResult{
				{Id: "p1", Message: "Could not update instance[p1]", Err: errors.New("status 500")},
			}
		},
	}
	settings := map[string]*standard.Settings{
		"TestStandard": {Remediate: true},
	}
	handler := newHandlerFixture(check, settings)

	result, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com","standard":"TestStandard"}`))

	assert.NoError(t, err)
	assert.False(t, result.IsSuccessful)
	assert.Equal(t, "failed", result.Outcomes["remediate"])
	assert.Contains(t, result.FailureMessage, "status 500")
}

func TestUpdateSettingsSwapsConfiguredSettings(t *testing.T) {

	check := &testCheck{}
	handler := newHandlerFixture(check, nil)

	_, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com","standard":"TestStandard"}`))
	assert.Error(t, err)

	handler.UpdateSettings(map[string]*standard.Settings{
		"TestStandard": {Report: true},
	})

	result, err := handler.Handle(messageWithBody(`{"tenant":"contoso.example.com","standard":"TestStandard"}`))
	assert.NoError(t, err)
	assert.Equal(t, "success", result.Outcomes["report"])
}
