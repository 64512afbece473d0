package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSONScalars(t *testing.T) {
	s, err := ToJSON(Integer(5))
	require.NoError(t, err)
	assert.Equal(t, "5", s)

	s, err = ToJSON(Boolean(true))
	require.NoError(t, err)
	assert.Equal(t, "true", s)

	s, err = ToJSON(Null())
	require.NoError(t, err)
	assert.Equal(t, "null", s)
}

func TestToJSONObjectAndArray(t *testing.T) {
	o := NewObject()
	o.Set("a", Integer(1))
	o.Set("b", Array(String("x"), String("y")))
	s, err := ToJSON(NewObjectValue(o))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":["x","y"]}`, s)
}

func TestToJSONInvalidUTF8FallsBackToBase64(t *testing.T) {
	v := Bytes([]byte{0xff, 0xfe})
	s, err := ToJSON(v)
	require.NoError(t, err)
	assert.Equal(t, `"//4="`, s)
}
