package entitlement

import (
	"regexp"
	"sort"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidKey reports whether key matches the platform feature key format.
func ValidKey(key string) bool { return keyPattern.MatchString(key) }

// Feature is a typed, platform-wide capability key. The data type is fixed at
// registration; there is deliberately no way to change it afterwards.
type Feature struct {
	Key         string
	DataType    DataType
	Description string
}

// Registry is the authoritative mapping from feature key to data type. It is
// populated from the feature catalog at startup or per request and passed into
// every engine call; it is never ambient global state.
type Registry struct {
	features map[string]Feature
}

func NewRegistry() *Registry {
	return &Registry{features: make(map[string]Feature)}
}

func (r *Registry) Register(key string, dataType DataType, description string) error {
	if !ValidKey(key) {
		return keyError(key, ErrInvalidKeyFormat)
	}
	if !dataType.Valid() {
		return keyError(key, ErrTypeMismatch)
	}
	if _, ok := r.features[key]; ok {
		return keyError(key, ErrDuplicateKey)
	}
	r.features[key] = Feature{Key: key, DataType: dataType, Description: description}
	return nil
}

func (r *Registry) Lookup(key string) (Feature, error) {
	f, ok := r.features[key]
	if !ok {
		return Feature{}, keyError(key, ErrUnknownFeature)
	}
	return f, nil
}

func (r *Registry) DataTypeOf(key string) (DataType, error) {
	f, err := r.Lookup(key)
	if err != nil {
		return "", err
	}
	return f.DataType, nil
}

// Keys returns every registered key in lexical order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.features))
	for key := range r.features {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) Len() int { return len(r.features) }
