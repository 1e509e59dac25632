package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register("max_members", DataTypeInt, "maximum member count")
	require.NoError(t, err)

	f, err := reg.Lookup("max_members")
	require.NoError(t, err)
	assert.Equal(t, DataTypeInt, f.DataType)
	assert.Equal(t, "maximum member count", f.Description)

	dt, err := reg.DataTypeOf("max_members")
	require.NoError(t, err)
	assert.Equal(t, DataTypeInt, dt)
}

func TestRegistry_DuplicateKey(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("beta_access", DataTypeBool, ""))

	err := reg.Register("beta_access", DataTypeString, "")
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// the original registration is untouched
	dt, err := reg.DataTypeOf("beta_access")
	require.NoError(t, err)
	assert.Equal(t, DataTypeBool, dt)
}

func TestRegistry_InvalidKeyFormat(t *testing.T) {
	reg := NewRegistry()

	for _, key := range []string{"", "Max", "1seats", "max-seats", "max seats", "_hidden"} {
		err := reg.Register(key, DataTypeBool, "")
		assert.ErrorIs(t, err, ErrInvalidKeyFormat, "key %q", key)
	}

	for _, key := range []string{"a", "max_seats", "tier2", "b2b_mode"} {
		assert.True(t, ValidKey(key), "key %q", key)
	}
}

func TestRegistry_UnknownFeature(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Lookup("missing")
	assert.ErrorIs(t, err, ErrUnknownFeature)

	_, err = reg.DataTypeOf("missing")
	assert.ErrorIs(t, err, ErrUnknownFeature)

	var keyErr *KeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "missing", keyErr.Key)
}

func TestRegistry_Keys(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("zeta", DataTypeBool, ""))
	require.NoError(t, reg.Register("alpha", DataTypeInt, ""))
	require.NoError(t, reg.Register("mid", DataTypeString, ""))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Keys())
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_InvalidDataType(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("weird", DataType("float"), "")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
