package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		`{bad`,
		``,
		`{"a": 1} trailing`,
		`[1, 2,]`,
	}
	for _, input := range cases {
		_, err := Parse([]byte(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestMarshalPrettyFormat(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1}`))
	require.NoError(t, err)

	pretty, err := MarshalPretty(v)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(pretty))

	min, err := MarshalMin(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(min))
}

func TestMinifiedRoundTrip(t *testing.T) {
	src := []byte(`{
		"name": "qubic",
		"values": [1, 2.5, 1e10, 18446744073709551615],
		"nested": {"url": "https://example.com/a?b=c&d=e", "ok": true, "none": null}
	}`)

	v, err := Parse(src)
	require.NoError(t, err)

	pretty, err := MarshalPretty(v)
	require.NoError(t, err)
	min, err := MarshalMin(v)
	require.NoError(t, err)

	fromPretty, err := Parse(pretty)
	require.NoError(t, err)
	fromMin, err := Parse(min)
	require.NoError(t, err)
	assert.Equal(t, fromPretty, fromMin)
}

func TestNoHTMLEscaping(t *testing.T) {
	v, err := Parse([]byte(`{"q": "a<b & c>d"}`))
	require.NoError(t, err)

	min, err := MarshalMin(v)
	require.NoError(t, err)
	assert.Equal(t, `{"q":"a<b & c>d"}`, string(min))
}

func TestLargeIntegersSurvive(t *testing.T) {
	v, err := Parse([]byte(`{"supply": 18446744073709551615}`))
	require.NoError(t, err)

	min, err := MarshalMin(v)
	require.NoError(t, err)
	assert.Equal(t, `{"supply":18446744073709551615}`, string(min))
}

func TestDeterministicKeyOrder(t *testing.T) {
	a, err := Parse([]byte(`{"b": 2, "a": 1}`))
	require.NoError(t, err)
	b, err := Parse([]byte(`{"a": 1, "b": 2}`))
	require.NoError(t, err)

	outA, err := MarshalMin(a)
	require.NoError(t, err)
	outB, err := MarshalMin(b)
	require.NoError(t, err)
	assert.Equal(t, string(outA), string(outB))
}
