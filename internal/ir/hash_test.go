package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHashFixture() *Graph {
	return NewBuilder().
		Node("cap", KindCapability, Object{"base": Int(0), "size": Int(64)}).
		Node("ld", KindLoad, Object{"addr": Int(8)}).
		Grant("c1", "cap", "ld").
		Graph()
}

func TestGraphHashDeterministic(t *testing.T) {
	h1, err := GraphHash(buildHashFixture())
	require.NoError(t, err)
	h2, err := GraphHash(buildHashFixture())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "hex-encoded SHA-256")
}

func TestGraphHashSensitiveToContent(t *testing.T) {
	base, err := GraphHash(buildHashFixture())
	require.NoError(t, err)

	changed := buildHashFixture()
	changed.Nodes[1].Properties["addr"] = Int(16)
	h, err := GraphHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, base, h)
}

func TestGraphHashNilVsEmptyProperties(t *testing.T) {
	withNil := NewBuilder().Node("a", "Const", nil).Graph()
	withEmpty := NewBuilder().Node("a", "Const", Object{}).Graph()

	h1, err := GraphHash(withNil)
	require.NoError(t, err)
	h2, err := GraphHash(withEmpty)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "nil and empty properties hash identically")
}

func TestGraphHashRejectsInvalidLayer(t *testing.T) {
	g := &Graph{Edges: []Edge{{ID: "e1", Layer: Layer(42), Kind: "x"}}}

	_, err := GraphHash(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid layer")
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical(Object{"expr": String("a<b && c>d")})
	require.NoError(t, err)
	assert.Equal(t, `{"expr":"a<b && c>d"}`, string(data))
}

func TestMarshalCanonicalControlEscapes(t *testing.T) {
	data, err := MarshalCanonical(String("line\nbreak\x01"))
	require.NoError(t, err)
	assert.Equal(t, `"line\nbreak"`, string(data))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + combining acute normalizes to the precomposed form.
	decomposed, err := MarshalCanonical(String("é"))
	require.NoError(t, err)
	precomposed, err := MarshalCanonical(String("é"))
	require.NoError(t, err)
	assert.Equal(t, precomposed, decomposed)
}
