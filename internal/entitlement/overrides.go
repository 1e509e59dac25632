package entitlement

import "time"

// Override is a tenant-specific replacement value for a feature, optionally
// time-limited. A nil ExpiresAt never expires.
type Override struct {
	Value     Value
	ExpiresAt *time.Time
}

// Active reports whether the override participates in resolution at the given
// instant. Expiry is exclusive: at t == ExpiresAt the override is already gone.
func (o Override) Active(at time.Time) bool {
	return o.ExpiresAt == nil || o.ExpiresAt.After(at)
}

// Overrides is the set of overrides attached to a tenant, keyed by feature.
// At most one override per key: Set replaces both value and expiry of any
// prior entry, expired or not.
type Overrides struct {
	entries map[string]Override
}

func NewOverrides() *Overrides {
	return &Overrides{entries: make(map[string]Override)}
}

func (o *Overrides) Set(reg *Registry, key string, value Value, expiresAt *time.Time) error {
	want, err := reg.DataTypeOf(key)
	if err != nil {
		return err
	}
	if value.Type() != want {
		return &TypeMismatchError{Key: key, Want: want, Got: value.Type()}
	}
	o.entries[key] = Override{Value: value, ExpiresAt: expiresAt}
	return nil
}

// Get returns the override value for key if one exists and is active at the
// given instant. Expired entries read as absent but are not removed; reads
// stay pure and deletion is Prune's job.
func (o *Overrides) Get(key string, at time.Time) (Value, bool) {
	entry, ok := o.entries[key]
	if !ok || !entry.Active(at) {
		return Value{}, false
	}
	return entry.Value, true
}

// Entry returns the raw override for key regardless of expiry.
func (o *Overrides) Entry(key string) (Override, bool) {
	entry, ok := o.entries[key]
	return entry, ok
}

// Remove is idempotent.
func (o *Overrides) Remove(key string) {
	delete(o.entries, key)
}

// Prune deletes every override with ExpiresAt <= at and returns the count
// removed. This is the only operation that drops expired entries.
func (o *Overrides) Prune(at time.Time) int {
	removed := 0
	for key, entry := range o.entries {
		if entry.ExpiresAt != nil && !entry.ExpiresAt.After(at) {
			delete(o.entries, key)
			removed++
		}
	}
	return removed
}

func (o *Overrides) Len() int { return len(o.entries) }
