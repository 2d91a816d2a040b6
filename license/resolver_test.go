package license

import (
	"testing"
	"time"

	"github.com/cloudgovern/steward/standard"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const testTenant = standard.Tenant("contoso.example.com")

type mockCapabilityClient struct {
	CapabilitiesFunc func(tenant standard.Tenant) ([]standard.Capability, error)
	CallCount        int
}

func (m *mockCapabilityClient) Capabilities(tenant standard.Tenant) ([]standard.Capability, error) {
	m.CallCount++
	if m.CapabilitiesFunc != nil {
		return m.CapabilitiesFunc(tenant)
	}
	return nil, nil
}

func TestHasCapabilityMatchesAnyOfRequiredSet(t *testing.T) {

	client := &mockCapabilityClient{
		CapabilitiesFunc: func(tenant standard.Tenant) ([]standard.Capability, error) {
			return []standard.Capability{"EXCHANGE_S_ENTERPRISE", "SHAREPOINT_S"}, nil
		},
	}
	resolver := NewResolver(client)

	eligible, err := resolver.HasCapability(testTenant, "CalendarSharing",
		[]standard.Capability{"EXCHANGE_S_STANDARD", "EXCHANGE_S_ENTERPRISE"})

	assert.NoError(t, err)
	assert.True(t, eligible)
}

func TestHasCapabilityWithoutMatchingCapability(t *testing.T) {

	client := &mockCapabilityClient{
		CapabilitiesFunc: func(tenant standard.Tenant) ([]standard.Capability, error) {
			return []standard.Capability{"SHAREPOINT_S"}, nil
		},
	}
	resolver := NewResolver(client)

	eligible, err := resolver.HasCapability(testTenant, "CalendarSharing",
		[]standard.Capability{"EXCHANGE_S_STANDARD", "EXCHANGE_S_ENTERPRISE"})

	assert.NoError(t, err)
	assert.False(t, eligible)
}

func TestHasCapabilityPropagatesClientError(t *testing.T) {

	client := &mockCapabilityClient{
		CapabilitiesFunc: func(tenant standard.Tenant) ([]standard.Capability, error) {
			return nil, errors.New("status 503")
		},
	}
	resolver := NewResolver(client)

	_, err := resolver.HasCapability(testTenant, "CalendarSharing",
		[]standard.Capability{"EXCHANGE_S_STANDARD"})

	assert.Error(t, err)
	assert.Equal(t, "status 503", err.Error())
}

func TestCapabilitiesAreCachedPerTenant(t *testing.T) {

	client := &mockCapabilityClient{
		CapabilitiesFunc: func(tenant standard.Tenant) ([]standard.Capability, error) {
			return []standard.Capability{"EXCHANGE_S_STANDARD"}, nil
		},
	}
	resolver := NewResolver(client)

	required := []standard.Capability{"EXCHANGE_S_STANDARD"}

	_, err := resolver.HasCapability(testTenant, "CalendarSharing", required)
	assert.NoError(t, err)
	_, err = resolver.HasCapability(testTenant, "CalendarSharing", required)
	assert.NoError(t, err)
	assert.Equal(t, 1, client.CallCount)

	_, err = resolver.HasCapability("fabrikam.example.com", "CalendarSharing", required)
	assert.NoError(t, err)
	assert.Equal(t, 2, client.CallCount)
}

func TestExpiredCacheEntryIsRefetched(t *testing.T) {

	client := &mockCapabilityClient{
		CapabilitiesFunc: func(tenant standard.Tenant) ([]standard.Capability, error) {
			return []standard.Capability{"EXCHANGE_S_STANDARD"}, nil
		},
	}
	resolver := NewResolver(client)

	now := time.Now()
	resolver.nowFunc = func() time.Time { return now }

	required := []standard.Capability{"EXCHANGE_S_STANDARD"}

	_, err := resolver.HasCapability(testTenant, "CalendarSharing", required)
	assert.NoError(t, err)
	assert.Equal(t, 1, client.CallCount)

	now = now.Add(defaultCacheTtl + time.Second)

	_, err = resolver.HasCapability(testTenant, "CalendarSharing", required)
	assert.NoError(t, err)
	assert.Equal(t, 2, client.CallCount)
}
