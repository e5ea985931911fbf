package dataset

import (
	"strconv"

	"debatetxt/internal"
	"debatetxt/internal/util"
)

const (
	ColSpeechID    = "speech_id"
	ColSpeakerID   = "speaker_id"
	ColText        = "text"
	ColCleanedText = "cleaned_text"
	ColMemberID    = "member_id"
)

// SpeechColumns is the fixed speech schema without cleaned_text.
var SpeechColumns = []Column{
	{Name: ColSpeechID, Kind: String},
	{Name: "speaker", Kind: String},
	{Name: ColSpeakerID, Kind: Int},
	{Name: "date", Kind: String},
	{Name: "day", Kind: String},
	{Name: "time", Kind: String},
	{Name: "duration", Kind: String},
	{Name: "num_tokens", Kind: Int},
	{Name: ColText, Kind: String},
}

var MemberColumns = []Column{
	{Name: ColMemberID, Kind: Int},
	{Name: "first_name", Kind: String},
	{Name: "last_name", Kind: String},
	{Name: "full_name", Kind: String},
	{Name: "division", Kind: String},
	{Name: "house", Kind: String},
	{Name: "party", Kind: String},
	{Name: "from_date", Kind: String},
	{Name: "from_why", Kind: String},
	{Name: "to_date", Kind: String},
	{Name: "to_why", Kind: String},
}

// TextColumns are dropped from the lightweight projection.
var TextColumns = []string{ColText, ColCleanedText}

func SpeechRow(s internal.Speech) []string {
	return []string{
		s.SpeechID,
		s.Speaker,
		strconv.Itoa(s.SpeakerID),
		s.Date,
		s.Day,
		s.Time,
		s.Duration,
		strconv.Itoa(s.NumTokens),
		s.Text,
	}
}

func MemberRow(m internal.Member) []string {
	return []string{
		strconv.Itoa(m.MemberID),
		m.FirstName,
		m.LastName,
		m.FullName,
		m.Division,
		m.House,
		m.Party,
		m.FromDate,
		m.FromWhy,
		m.ToDate,
		m.ToWhy,
	}
}

// FromSpeeches builds the speech table. The cleaned_text column exists only
// when withCleaned is set, i.e. when the cleaning stage ran.
func FromSpeeches(speeches []internal.Speech, withCleaned bool) *Table {
	cols := append([]Column(nil), SpeechColumns...)
	if withCleaned {
		cols = append(cols, Column{Name: ColCleanedText, Kind: String})
	}
	t := New(cols...)
	for _, s := range speeches {
		row := SpeechRow(s)
		if withCleaned {
			row = append(row, util.DerefString(s.CleanedText))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func FromMembers(members []internal.Member) *Table {
	t := New(MemberColumns...)
	for _, m := range members {
		t.Rows = append(t.Rows, MemberRow(m))
	}
	return t
}

// Lightweight drops the text payload columns.
func Lightweight(t *Table) *Table {
	return t.Drop(TextColumns...)
}
