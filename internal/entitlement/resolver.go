package entitlement

import "time"

// SubscriptionStatus mirrors the lifecycle states of a tenant's current
// subscription. Only an active subscription contributes plan entitlements.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
)

// Subscription is the read-only slice of a tenant's current subscription the
// resolver needs: its status and the referenced plan's entitlement set.
type Subscription struct {
	Status       SubscriptionStatus
	Entitlements *Entitlements
}

// TenantSnapshot is the materialized input to resolution: the tenant's current
// subscription (nil when unsubscribed) and its override set. Resolution never
// mutates the snapshot, so concurrent callers need no coordination.
type TenantSnapshot struct {
	Subscription *Subscription
	Overrides    *Overrides
}

// Resolve computes the effective value of a feature for a tenant at an
// instant. Precedence, highest first:
//
//  1. an active override, regardless of subscription status
//  2. the current subscription's plan entitlement, iff the subscription
//     status is active
//  3. the type default (false, 0, "")
//
// A past-due or canceled subscription skips straight from override to
// default; there is no fallback to a previous plan. The only error is an
// unregistered feature key.
func Resolve(reg *Registry, tenant TenantSnapshot, key string, at time.Time) (Value, error) {
	dataType, err := reg.DataTypeOf(key)
	if err != nil {
		return Value{}, err
	}

	if tenant.Overrides != nil {
		if v, ok := tenant.Overrides.Get(key, at); ok {
			return v, nil
		}
	}

	sub := tenant.Subscription
	if sub != nil && sub.Status == StatusActive && sub.Entitlements != nil {
		if v, ok := sub.Entitlements.Get(key); ok {
			return v, nil
		}
	}

	return dataType.Default(), nil
}

// ResolveAll resolves every registered feature, yielding the full effective
// entitlement map a consumer gates a tenant session with. Output size equals
// the registry size, not the override or entitlement count.
func ResolveAll(reg *Registry, tenant TenantSnapshot, at time.Time) (map[string]Value, error) {
	resolved := make(map[string]Value, reg.Len())
	for _, key := range reg.Keys() {
		v, err := Resolve(reg, tenant, key, at)
		if err != nil {
			return nil, err
		}
		resolved[key] = v
	}
	return resolved, nil
}
