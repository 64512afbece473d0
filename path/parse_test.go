package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Path
	}{
		{
			name: "single field",
			in:   "foo",
			want: New(NewField("foo", false)),
		},
		{
			name: "leading dot tolerated",
			in:   ".foo.bar",
			want: New(NewField("foo", false), NewField("bar", false)),
		},
		{
			name: "leading percent tolerated",
			in:   "%foo.bar",
			want: New(NewField("foo", false), NewField("bar", false)),
		},
		{
			name: "index",
			in:   "foo[0]",
			want: New(NewField("foo", false), NewIndex(0)),
		},
		{
			name: "negative index",
			in:   "foo[-1]",
			want: New(NewField("foo", false), NewIndex(-1)),
		},
		{
			name: "chained indices without dot",
			in:   "foo[0][1]",
			want: New(NewField("foo", false), NewIndex(0), NewIndex(1)),
		},
		{
			name: "quoted field needing escape",
			in:   `"availability-zone"`,
			want: New(NewField("availability-zone", true)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Segments(), got.Segments())
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	tests := []string{
		"",
		".",
		"foo.",
		"foo..bar",
		"foo[abc]",
		"foo[0",
		`"unterminated`,
		"foo.[0]",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePath(in)
			assert.Error(t, err)
		})
	}
}

func TestParseTargetPath(t *testing.T) {
	tp, err := ParseTargetPath(".foo.bar")
	require.NoError(t, err)
	assert.Equal(t, Event, tp.Prefix)
	assert.Equal(t, "foo.bar", Serialize(tp.Path))

	tp, err = ParseTargetPath("%tags[0]")
	require.NoError(t, err)
	assert.Equal(t, Metadata, tp.Prefix)
	assert.Equal(t, "tags[0]", Serialize(tp.Path))

	_, err = ParseTargetPath("foo")
	assert.Error(t, err, "missing root marker should fail")
}

func TestSerializeRoundTrip(t *testing.T) {
	in := `foo."availability-zone"[0].(a|b)`
	p, err := ParsePath("foo.\"availability-zone\"[0]")
	require.NoError(t, err)
	assert.Equal(t, `foo."availability-zone"[0]`, Serialize(p))
	_ = in // coalesce syntax isn't parsed from strings, only built via NewCoalesce
}

func TestSerializeCoalesce(t *testing.T) {
	p := New(NewField("foo", false), NewCoalesce("a", "b"))
	assert.Equal(t, `foo.(a|b)`, Serialize(p))
}

func TestSerializeEmptyPathIsRoot(t *testing.T) {
	assert.Equal(t, "", Serialize(Root()))
	assert.True(t, Root().IsRoot())
}
