// Package nlp turns raw speech text into a lemmatized, filtered token string.
package nlp

import (
	"context"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
	"golang.org/x/sync/errgroup"
)

type Token struct {
	Text string
	Tag  string
}

// Tagger splits text into part-of-speech tagged tokens.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

type Lemmatizer interface {
	Lemma(word string) string
}

// pronounTags are the Penn Treebank pronoun tags.
var pronounTags = map[string]struct{}{
	"PRP": {}, "PRP$": {}, "WP": {}, "WP$": {},
}

type Normalizer struct {
	tagger     Tagger
	lemmatizer Lemmatizer
	stops      *Stoplist
}

// New builds the English normalizer backed by prose and golem. A nil stops
// uses DefaultStoplist.
func New(stops *Stoplist) (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return NewWith(proseTagger{model: loadModel()}, lem, stops), nil
}

// loadModel builds prose's default tagging model. Swapped out in tests.
var loadModel = func() *prose.Model {
	return prose.ModelFromData("debatetxt")
}

func NewWith(tagger Tagger, lemmatizer Lemmatizer, stops *Stoplist) *Normalizer {
	if stops == nil {
		stops = DefaultStoplist()
	}
	return &Normalizer{tagger: tagger, lemmatizer: lemmatizer, stops: stops}
}

// Clean returns the space-joined lemmas of every token that is not a
// stopword, punctuation, whitespace or a pronoun.
func (n *Normalizer) Clean(text string) (string, error) {
	tokens, err := n.tagger.Tag(text)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.drop(tok) {
			continue
		}
		lemma := strings.ToLower(strings.TrimSpace(n.lemmatizer.Lemma(strings.ToLower(tok.Text))))
		if lemma == "" {
			continue
		}
		out = append(out, lemma)
	}
	return strings.Join(out, " "), nil
}

func (n *Normalizer) drop(tok Token) bool {
	if n.stops.IsStop(tok.Text) {
		return true
	}
	if isPunct(tok.Text) {
		return true
	}
	if strings.TrimSpace(tok.Text) == "" {
		return true
	}
	_, pronoun := pronounTags[tok.Tag]
	return pronoun
}

// CleanAll cleans texts with up to workers goroutines. out[i] is always the
// cleaned form of texts[i].
func (n *Normalizer) CleanAll(ctx context.Context, texts []string, workers int) ([]string, error) {
	out := make([]string, len(texts))
	if workers <= 1 {
		for i, text := range texts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cleaned, err := n.Clean(text)
			if err != nil {
				return nil, err
			}
			out[i] = cleaned
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cleaned, err := n.Clean(text)
			if err != nil {
				return err
			}
			out[i] = cleaned
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func isPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

// proseTagger shares one model across documents and goroutines; tagging
// only reads it.
type proseTagger struct {
	model *prose.Model
}

func (t proseTagger) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text,
		prose.UsingModel(t.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	toks := doc.Tokens()
	out := make([]Token, 0, len(toks))
	for _, t := range toks {
		out = append(out, Token{Text: t.Text, Tag: t.Tag})
	}
	return out, nil
}
