package entitlement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_MarshalsAsBareScalar(t *testing.T) {
	cases := map[Value]string{
		BoolValue(true):     "true",
		IntValue(42):        "42",
		StringValue("gold"): `"gold"`,
		StringValue(""):     `""`,
	}
	for v, want := range cases {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, want, string(b))
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(DataTypeBool, []byte("true"))
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = ParseValue(DataTypeInt, []byte("25"))
	require.NoError(t, err)
	assert.Equal(t, int64(25), v.Int())

	v, err = ParseValue(DataTypeString, []byte(`"pro"`))
	require.NoError(t, err)
	assert.Equal(t, "pro", v.Str())
}

func TestParseValue_WireTagIsNotTrusted(t *testing.T) {
	_, err := ParseValue(DataTypeBool, []byte(`"true"`))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ParseValue(DataTypeInt, []byte("true"))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ParseValue(DataTypeString, []byte("10"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValueFromAny(t *testing.T) {
	v, err := ValueFromAny(true)
	require.NoError(t, err)
	assert.Equal(t, DataTypeBool, v.Type())

	// JSON numbers decode as float64
	v, err = ValueFromAny(float64(12))
	require.NoError(t, err)
	assert.Equal(t, int64(12), v.Int())

	v, err = ValueFromAny("enterprise")
	require.NoError(t, err)
	assert.Equal(t, "enterprise", v.Str())

	_, err = ValueFromAny(12.5)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ValueFromAny([]string{"nope"})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDataType_Default(t *testing.T) {
	assert.False(t, DataTypeBool.Default().Bool())
	assert.Equal(t, int64(0), DataTypeInt.Default().Int())
	assert.Equal(t, "", DataTypeString.Default().Str())
}
