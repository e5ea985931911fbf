package internal

// Corpus identifies the chamber a transcript set comes from.
type Corpus string

const (
	CorpusNone            Corpus = ""
	CorpusRepresentatives Corpus = "representatives"
	CorpusSenate          Corpus = "senate"
)

// Prefix returns the speech id prefix for the corpus, empty for CorpusNone.
func (c Corpus) Prefix() string {
	switch c {
	case CorpusRepresentatives:
		return "hr"
	case CorpusSenate:
		return "sen"
	default:
		return ""
	}
}

type Speech struct {
	SpeechID  string
	Speaker   string
	SpeakerID int
	Date      string
	Day       string
	Time      string
	Duration  string
	Text      string
	NumTokens int
	// CleanedText is nil until the cleaning stage has run.
	CleanedText *string
}

type Member struct {
	MemberID  int
	FirstName string
	LastName  string
	FullName  string
	Division  string
	House     string
	Party     string
	FromDate  string
	FromWhy   string
	ToDate    string
	ToWhy     string
}

type SkipReason string

const (
	SkipNoSpeaker      SkipReason = "no_speaker"
	SkipUnknownSpeaker SkipReason = "unknown_speaker"
	SkipInvalidSpeaker SkipReason = "invalid_speaker_id"
	SkipNoText         SkipReason = "no_text"
)

// ExtractStats counts what one extraction pass kept and dropped.
type ExtractStats struct {
	Speeches int
	Members  int
	Skipped  map[SkipReason]int
}

func (s *ExtractStats) Skip(reason SkipReason) {
	if s.Skipped == nil {
		s.Skipped = map[SkipReason]int{}
	}
	s.Skipped[reason]++
}

func (s *ExtractStats) Add(other ExtractStats) {
	s.Speeches += other.Speeches
	s.Members += other.Members
	for reason, n := range other.Skipped {
		if s.Skipped == nil {
			s.Skipped = map[SkipReason]int{}
		}
		s.Skipped[reason] += n
	}
}

func (s ExtractStats) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

type QueryMode string

const (
	ModeAnd   QueryMode = "and"
	ModeOr    QueryMode = "or"
	ModeExact QueryMode = "exact"
)

func ParseQueryMode(value string) (QueryMode, error) {
	switch QueryMode(value) {
	case ModeAnd, ModeOr, ModeExact:
		return QueryMode(value), nil
	default:
		return "", ErrInvalidMode
	}
}

type Query struct {
	Text  string
	Mode  QueryMode
	Index string
	Size  int
}

// QuerySpec is one entry of an ordered query set.
type QuerySpec struct {
	Text string    `yaml:"text"`
	Mode QueryMode `yaml:"mode"`
}

// Explanation mirrors the relevance explanation tree returned with a hit.
type Explanation struct {
	Value       float64       `json:"value"`
	Description string        `json:"description"`
	Details     []Explanation `json:"details"`
}

type SearchHit struct {
	ID          string       `json:"id"`
	Explanation *Explanation `json:"explanation,omitempty"`
}

// Hit is a decoded search result: document id plus frequency score.
type Hit struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

type IndexRow struct {
	ID   string
	Text string
}

type IndexFailure struct {
	DocumentID string
	Err        error
}

type TranscriptFile struct {
	Name string
	URL  string
	Hash string
	Path string
}
