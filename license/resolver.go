// Package license resolves tenant capabilities from the mail service
// licensing surface.
package license

import (
	"sync"
	"time"

	"github.com/cloudgovern/steward/standard"
)

const defaultCacheTtl = 15 * time.Minute

// CapabilityClient reads the capabilities of a tenant's subscription.
type CapabilityClient interface {
	Capabilities(tenant standard.Tenant) ([]standard.Capability, error)
}

type cacheEntry struct {
	capabilities map[standard.Capability]struct{}
	expiresAt    time.Time
}

// Resolver implements standard.CapabilityResolver. Lookups are cached
// per tenant, license assignments churn far slower than check cadence.
type Resolver struct {
	client CapabilityClient
	ttl    time.Duration

	cacheMu *sync.Mutex
	cache   map[standard.Tenant]cacheEntry

	nowFunc func() time.Time
}

func NewResolver(client CapabilityClient) *Resolver {
	return &Resolver{
		client:  client,
		ttl:     defaultCacheTtl,
		cacheMu: &sync.Mutex{},
		cache:   make(map[standard.Tenant]cacheEntry),
		nowFunc: time.Now,
	}
}

// HasCapability reports whether the tenant's subscription includes any
// capability in the required set.
func (r *Resolver) HasCapability(tenant standard.Tenant, standardName string, required []standard.Capability) (bool, error) {

	capabilities, err := r.capabilitiesOf(tenant)
	if err != nil {
		return false, err
	}

	for _, capability := range required {
		if _, contains := capabilities[capability]; contains {
			return true, nil
		}
	}
	return false, nil
}

func (r *Resolver) capabilitiesOf(tenant standard.Tenant) (map[standard.Capability]struct{}, error) {

	r.cacheMu.Lock()
	entry, cached := r.cache[tenant]
	r.cacheMu.Unlock()

	if cached && r.nowFunc().Before(entry.expiresAt) {
		return entry.capabilities, nil
	}

	fetched, err := r.client.Capabilities(tenant)
	if err != nil {
		return nil, err
	}

	capabilities := make(map[standard.Capability]struct{}, len(fetched))
	for _, capability := range fetched {
		capabilities[capability] = struct{}{}
	}

	r.cacheMu.Lock()
	r.cache[tenant] = cacheEntry{
		capabilities: capabilities,
		expiresAt:    r.nowFunc().Add(r.ttl),
	}
	r.cacheMu.Unlock()

	return capabilities, nil
}
