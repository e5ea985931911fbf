package nlp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jdkato/prose/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTagger splits on spaces; words in pronouns get the PRP tag.
type fakeTagger struct {
	pronouns map[string]bool
	err      error
}

func (f fakeTagger) Tag(text string) ([]Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []Token{}
	for _, w := range strings.Split(text, " ") {
		tag := "NN"
		if f.pronouns[w] {
			tag = "PRP"
		}
		out = append(out, Token{Text: w, Tag: tag})
	}
	return out, nil
}

type suffixLemmatizer struct{}

func (suffixLemmatizer) Lemma(word string) string {
	switch word {
	case "taxes":
		return "tax"
	case "argued":
		return "argue"
	}
	return word
}

func TestCleanDropsEachCategory(t *testing.T) {
	stops := NewStoplist([]string{"the"})
	n := NewWith(fakeTagger{pronouns: map[string]bool{"thee": true}}, suffixLemmatizer{}, stops)

	got, err := n.Clean("The members argued , thee  about Taxes")
	require.NoError(t, err)
	assert.Equal(t, "members argue about tax", got)
}

func TestCleanPropagatesTaggerError(t *testing.T) {
	n := NewWith(fakeTagger{err: errors.New("boom")}, suffixLemmatizer{}, nil)
	_, err := n.Clean("x")
	assert.Error(t, err)
}

func TestCleanAllPreservesOrder(t *testing.T) {
	n := NewWith(fakeTagger{}, suffixLemmatizer{}, NewStoplist(nil))
	texts := []string{"taxes", "argued", "budget", "taxes argued", "deficit"}

	serial, err := n.CleanAll(context.Background(), texts, 1)
	require.NoError(t, err)
	parallel, err := n.CleanAll(context.Background(), texts, 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"tax", "argue", "budget", "tax argue", "deficit"}, serial)
	assert.Equal(t, serial, parallel)
}

func TestCleanAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := NewWith(fakeTagger{}, suffixLemmatizer{}, nil)
	_, err := n.CleanAll(ctx, []string{"a"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoplist(t *testing.T) {
	s := DefaultStoplist()
	assert.True(t, s.IsStop("The"))
	assert.True(t, s.IsStop("they"))
	assert.False(t, s.IsStop("parliament"))

	s.Add("Parliament")
	assert.True(t, s.IsStop("parliament"))
	s.Remove("parliament")
	assert.False(t, s.IsStop("parliament"))

	assert.Equal(t, []string{"a", "b"}, NewStoplist([]string{"b", "a", " "}).All())
}

func TestCustomize(t *testing.T) {
	s := Customize([]string{"Honourable", "member"}, []string{"not", "member"})
	assert.True(t, s.IsStop("honourable"))
	assert.False(t, s.IsStop("not"))
	assert.False(t, s.IsStop("member"))
	assert.True(t, s.IsStop("the"))
}

func TestDefaultNormalizer(t *testing.T) {
	n, err := New(nil)
	require.NoError(t, err)

	got, err := n.Clean("They argued about the taxes.")
	require.NoError(t, err)
	assert.NotContains(t, strings.Fields(got), "they")
	assert.NotContains(t, strings.Fields(got), "the")
	assert.NotContains(t, got, ".")
	assert.Contains(t, strings.Fields(got), "tax")
}

func TestNewLoadsModelOnce(t *testing.T) {
	loads := 0
	prev := loadModel
	loadModel = func() *prose.Model {
		loads++
		return prev()
	}
	t.Cleanup(func() { loadModel = prev })

	n, err := New(nil)
	require.NoError(t, err)
	for _, text := range []string{"The taxes rose.", "Members argued.", "Order!"} {
		_, err := n.Clean(text)
		require.NoError(t, err)
	}
	_, err = n.CleanAll(context.Background(), []string{"one speech", "another speech"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
}
