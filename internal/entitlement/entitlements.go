package entitlement

// Entitlements is the set of typed default values a plan grants, keyed by
// feature. At most one entry per key; Set is an upsert, last write wins.
type Entitlements struct {
	values map[string]Value
}

func NewEntitlements() *Entitlements {
	return &Entitlements{values: make(map[string]Value)}
}

// Set validates the value's tag against the registry and stores it, replacing
// any existing entry for the key.
func (e *Entitlements) Set(reg *Registry, key string, value Value) error {
	want, err := reg.DataTypeOf(key)
	if err != nil {
		return err
	}
	if value.Type() != want {
		return &TypeMismatchError{Key: key, Want: want, Got: value.Type()}
	}
	e.values[key] = value
	return nil
}

// Get returns the granted value for key, or ok=false when the plan grants no
// explicit entitlement; the caller then falls back per the resolution rules.
func (e *Entitlements) Get(key string) (Value, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Remove is idempotent; removing an absent key is a no-op.
func (e *Entitlements) Remove(key string) {
	delete(e.values, key)
}

func (e *Entitlements) Len() int { return len(e.values) }
