package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatetxt/internal"
)

func sampleTable() *Table {
	t := New(StringColumns("id", "name", "text")...)
	t.Rows = [][]string{
		{"1", "a", "alpha"},
		{"2", "b", "beta"},
		{"3", "c", "gamma"},
	}
	return t
}

func TestDropDoesNotMutate(t *testing.T) {
	base := sampleTable()
	out := base.Drop("text", "missing")

	assert.Equal(t, []string{"id", "name"}, out.Names())
	assert.Equal(t, []string{"id", "name", "text"}, base.Names())
	assert.Equal(t, []string{"1", "a"}, out.Rows[0])
	assert.Len(t, base.Rows[0], 3)
}

func TestHead(t *testing.T) {
	base := sampleTable()
	assert.Equal(t, 2, base.Head(2).Len())
	assert.Equal(t, 3, base.Head(0).Len())
	assert.Equal(t, 3, base.Head(10).Len())
}

func TestProjectMissingColumn(t *testing.T) {
	_, err := sampleTable().Project("id", "nope")
	assert.ErrorIs(t, err, internal.ErrMissingColumn)
}

func TestAppendValidatesIntColumns(t *testing.T) {
	tbl := New(Column{Name: "n", Kind: Int})
	require.NoError(t, tbl.Append("4"))
	assert.Error(t, tbl.Append("four"))
	assert.Error(t, tbl.Append("1", "2"))
}

func TestConcatKeepsOrder(t *testing.T) {
	cols := StringColumns("id")
	a := New(cols...)
	a.Rows = [][]string{{"1"}, {"2"}}
	b := New(cols...)
	b.Rows = [][]string{{"3"}}

	out, err := Concat(cols, a, nil, b)
	require.NoError(t, err)
	values, _ := out.Column("id")
	assert.Equal(t, []string{"1", "2", "3"}, values)

	_, err = Concat(cols, New(StringColumns("other")...))
	assert.Error(t, err)
}

func TestLightweightDropsTextColumns(t *testing.T) {
	cleaned := "tax"
	speeches := []internal.Speech{{SpeechID: "hr_1", SpeakerID: 7, Text: "Taxes.", NumTokens: 1, CleanedText: &cleaned}}

	full := FromSpeeches(speeches, true)
	assert.True(t, full.Has(ColCleanedText))
	light := Lightweight(full)
	assert.False(t, light.Has(ColText))
	assert.False(t, light.Has(ColCleanedText))
	assert.True(t, light.Has(ColSpeechID))

	uncleaned := FromSpeeches(speeches, false)
	assert.False(t, uncleaned.Has(ColCleanedText))
}
