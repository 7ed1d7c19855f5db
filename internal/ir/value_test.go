package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGoRejectsFloats(t *testing.T) {
	_, err := UnmarshalValue([]byte(`{"x": 1.5}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = UnmarshalValue([]byte(`[1e3]`))
	require.Error(t, err)
}

func TestFromGoLargeIntKeepsPrecision(t *testing.T) {
	// 2^53+1 loses precision through float64; json.Number must not.
	v, err := UnmarshalValue([]byte(`9007199254740993`))
	require.NoError(t, err)
	assert.Equal(t, Int(9007199254740993), v)
}

func TestUnmarshalValueNull(t *testing.T) {
	v, err := UnmarshalValue([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, Null{}, v)
}

func TestObjectMarshalSortedKeys(t *testing.T) {
	obj := Object{
		"zeta":  Int(1),
		"alpha": String("a"),
		"mid":   Bool(true),
	}

	data, err := obj.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","mid":true,"zeta":1}`, string(data))
}

func TestObjectRoundTrip(t *testing.T) {
	var obj Object
	err := obj.UnmarshalJSON([]byte(`{"n": 42, "s": "hi", "nested": {"b": false}, "arr": [1, "two"]}`))
	require.NoError(t, err)

	assert.Equal(t, Int(42), obj["n"])
	assert.Equal(t, String("hi"), obj["s"])
	assert.Equal(t, Object{"b": Bool(false)}, obj["nested"])
	assert.Equal(t, Array{Int(1), String("two")}, obj["arr"])
}

func TestObjectGetHelpers(t *testing.T) {
	obj := Object{"kind": String("read"), "addr": Int(64)}

	assert.Equal(t, "read", obj.GetString("kind"))
	assert.Equal(t, "", obj.GetString("missing"))
	assert.Equal(t, "", obj.GetString("addr"), "non-string returns empty")

	n, ok := obj.GetInt("addr")
	assert.True(t, ok)
	assert.Equal(t, int64(64), n)

	_, ok = obj.GetInt("kind")
	assert.False(t, ok)
}

func TestObjectCloneIsDeep(t *testing.T) {
	obj := Object{"inner": Object{"x": Int(1)}, "arr": Array{Int(2)}}

	clone := obj.Clone()
	clone["inner"].(Object)["x"] = Int(99)
	clone["arr"].(Array)[0] = Int(99)

	assert.Equal(t, Int(1), obj["inner"].(Object)["x"])
	assert.Equal(t, Int(2), obj["arr"].(Array)[0])
}

func TestSortedKeysUTF16Order(t *testing.T) {
	// U+10000 encodes as surrogate pair D800 DC00 in UTF-16 but as
	// F0 90 80 80 in UTF-8, so the two orderings disagree with U+E000
	// (EE 80 80). RFC 8785 requires the UTF-16 order.
	obj := Object{
		"\U00010000": Int(1),
		"":     Int(2),
	}
	keys := obj.SortedKeys()
	// UTF-16: D800 < E000, so the supplementary character sorts first.
	assert.Equal(t, []string{"\U00010000", ""}, keys)
}
