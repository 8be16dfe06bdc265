package update

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsVisible(t *testing.T) {
	u := New(3, 4, Drag, "#000", "abc")
	assert.True(t, u.Visible())
	assert.Equal(t, Drag, u.Type())
	assert.Equal(t, "#000", u.StrokeColor())

	u.SetPosition(0.25, 0.5)
	u.SetVisible(false)
	assert.Equal(t, 0.25, u.X())
	assert.Equal(t, 0.5, u.Y())
	assert.False(t, u.Visible())
}

func TestSameComparesStrokeAndType(t *testing.T) {
	a := New(1, 1, Drag, "", "s1")
	b := New(9, 9, Drag, "red", "s1")
	c := New(1, 1, Stop, "", "s1")
	assert.True(t, a.Same(b))
	assert.False(t, a.Same(c))
}

func TestNewStrokeIDPrefixAndUniqueness(t *testing.T) {
	a := NewStrokeID(12, 7.5)
	b := NewStrokeID(12, 7.5)
	assert.True(t, strings.HasPrefix(a, "19.5"), a)
	assert.NotEqual(t, a, b)
}

func TestUnmarshalMissingVisible(t *testing.T) {
	var u Update
	require.NoError(t, json.Unmarshal([]byte(`{"x":0.5,"y":0.25,"type":1,"uuid":"s"}`), &u))
	assert.True(t, u.Visible())
	assert.Equal(t, Drag, u.Type())

	require.NoError(t, json.Unmarshal([]byte(`{"x":0,"y":0,"type":2,"uuid":"s","visible":false}`), &u))
	assert.False(t, u.Visible())
}

func TestUnmarshalRejectsUnknownType(t *testing.T) {
	var u Update
	err := json.Unmarshal([]byte(`{"x":0,"y":0,"type":7,"uuid":"s"}`), &u)
	require.Error(t, err)
}

func TestStreamCodec(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	first := []Update{*New(0.1, 0.2, Start, "", "a"), *New(0.3, 0.4, Drag, "", "a")}
	require.NoError(t, enc.Encode(first))
	require.NoError(t, enc.Encode([]Update{*NewText(0.5, 0.5, "#f00", "b", "hi", "monospace", 18)}))
	buf.WriteString("\n\n")

	dec := NewDecoder(&buf)
	got, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].Same(&first[1]))
	assert.Equal(t, 0.4, got[1].Y())

	got, err = dec.Decode()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Text())
	assert.Equal(t, 18.0, got[0].FontSize())

	_, err = dec.Decode()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoderReportsLine(t *testing.T) {
	dec := NewDecoder(strings.NewReader("[]\nnot json\n"))
	_, err := dec.Decode()
	require.NoError(t, err)
	_, err = dec.Decode()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
