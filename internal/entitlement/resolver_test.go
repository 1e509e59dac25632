package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolveNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func proPlan(t *testing.T, reg *Registry) *Entitlements {
	t.Helper()
	ents := NewEntitlements()
	require.NoError(t, ents.Set(reg, "max_members", IntValue(50)))
	return ents
}

func memberRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register("max_members", DataTypeInt, ""))
	require.NoError(t, reg.Register("beta_access", DataTypeBool, ""))
	require.NoError(t, reg.Register("support_tier", DataTypeString, ""))
	return reg
}

func TestResolve_ActiveSubscriptionUsesPlanEntitlement(t *testing.T) {
	// Scenario A: Acme on Pro (active), no overrides.
	reg := memberRegistry(t)
	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusActive, Entitlements: proPlan(t, reg)},
		Overrides:    NewOverrides(),
	}

	v, err := Resolve(reg, acme, "max_members", resolveNow)
	require.NoError(t, err)
	assert.Equal(t, int64(50), v.Int())
}

func TestResolve_ExpiredOverrideFallsThroughToPlan(t *testing.T) {
	// Scenario B: override expired in the past, plan still grants 50.
	reg := memberRegistry(t)
	overrides := NewOverrides()
	past := resolveNow.Add(-48 * time.Hour)
	require.NoError(t, overrides.Set(reg, "max_members", IntValue(5), &past))

	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusActive, Entitlements: proPlan(t, reg)},
		Overrides:    overrides,
	}

	v, err := Resolve(reg, acme, "max_members", resolveNow)
	require.NoError(t, err)
	assert.Equal(t, int64(50), v.Int())
}

func TestResolve_DefaultWhenNoEntitlementAnywhere(t *testing.T) {
	// Scenario C: beta_access granted nowhere resolves to false.
	reg := memberRegistry(t)
	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusActive, Entitlements: proPlan(t, reg)},
		Overrides:    NewOverrides(),
	}

	v, err := Resolve(reg, acme, "beta_access", resolveNow)
	require.NoError(t, err)
	assert.False(t, v.Bool())
}

func TestResolve_CanceledSubscriptionSkipsPlan(t *testing.T) {
	// Scenario D: canceled subscription never contributes plan entitlements.
	reg := memberRegistry(t)
	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusCanceled, Entitlements: proPlan(t, reg)},
		Overrides:    NewOverrides(),
	}

	v, err := Resolve(reg, acme, "max_members", resolveNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int())
}

func TestResolve_PastDueSubscriptionSkipsPlan(t *testing.T) {
	reg := memberRegistry(t)
	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusPastDue, Entitlements: proPlan(t, reg)},
	}

	v, err := Resolve(reg, acme, "max_members", resolveNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int())
}

func TestResolve_TypeDefaults(t *testing.T) {
	// P1: no override, no active subscription -> type default for every type.
	reg := memberRegistry(t)
	bare := TenantSnapshot{}

	v, err := Resolve(reg, bare, "max_members", resolveNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Int())

	v, err = Resolve(reg, bare, "beta_access", resolveNow)
	require.NoError(t, err)
	assert.False(t, v.Bool())

	v, err = Resolve(reg, bare, "support_tier", resolveNow)
	require.NoError(t, err)
	assert.Equal(t, "", v.Str())
}

func TestResolve_OverrideWinsOverPlanRegardlessOfStatus(t *testing.T) {
	// P2: a live override beats the plan value whatever the subscription says.
	reg := memberRegistry(t)
	for _, status := range []SubscriptionStatus{StatusActive, StatusPastDue, StatusCanceled} {
		overrides := NewOverrides()
		require.NoError(t, overrides.Set(reg, "max_members", IntValue(5), nil))

		acme := TenantSnapshot{
			Subscription: &Subscription{Status: status, Entitlements: proPlan(t, reg)},
			Overrides:    overrides,
		}

		v, err := Resolve(reg, acme, "max_members", resolveNow)
		require.NoError(t, err)
		assert.Equal(t, int64(5), v.Int(), "status %s", status)
	}
}

func TestResolve_ExpiryBoundaryIsExclusive(t *testing.T) {
	// P3: override value up to E-1ms, next precedence from E onwards.
	reg := memberRegistry(t)
	expiry := resolveNow.Add(time.Hour)

	overrides := NewOverrides()
	require.NoError(t, overrides.Set(reg, "max_members", IntValue(5), &expiry))

	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusActive, Entitlements: proPlan(t, reg)},
		Overrides:    overrides,
	}

	v, err := Resolve(reg, acme, "max_members", expiry.Add(-time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int())

	v, err = Resolve(reg, acme, "max_members", expiry)
	require.NoError(t, err)
	assert.Equal(t, int64(50), v.Int())

	v, err = Resolve(reg, acme, "max_members", expiry.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(50), v.Int())
}

func TestResolve_UnknownFeature(t *testing.T) {
	reg := memberRegistry(t)
	_, err := Resolve(reg, TenantSnapshot{}, "ghost_feature", resolveNow)
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestResolveAll_CoversEveryRegisteredKey(t *testing.T) {
	reg := memberRegistry(t)

	overrides := NewOverrides()
	require.NoError(t, overrides.Set(reg, "beta_access", BoolValue(true), nil))

	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusActive, Entitlements: proPlan(t, reg)},
		Overrides:    overrides,
	}

	resolved, err := ResolveAll(reg, acme, resolveNow)
	require.NoError(t, err)
	require.Len(t, resolved, reg.Len())

	assert.Equal(t, int64(50), resolved["max_members"].Int())
	assert.True(t, resolved["beta_access"].Bool())
	assert.Equal(t, "", resolved["support_tier"].Str())
}

func TestResolve_IsDeterministic(t *testing.T) {
	reg := memberRegistry(t)
	overrides := NewOverrides()
	expiry := resolveNow.Add(time.Hour)
	require.NoError(t, overrides.Set(reg, "max_members", IntValue(7), &expiry))

	acme := TenantSnapshot{
		Subscription: &Subscription{Status: StatusActive, Entitlements: proPlan(t, reg)},
		Overrides:    overrides,
	}

	first, err := Resolve(reg, acme, "max_members", resolveNow)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := Resolve(reg, acme, "max_members", resolveNow)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
