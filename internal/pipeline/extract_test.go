package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatetxt/internal"
)

func TestExtractSittingScenario(t *testing.T) {
	speeches, stats, err := ExtractSpeeches(strings.NewReader(sittingXML), "2001-03-15.xml", internal.CorpusRepresentatives)
	require.NoError(t, err)
	require.Len(t, speeches, 1)

	s := speeches[0]
	assert.Equal(t, "hr_2001-03-15.12.1", s.SpeechID)
	assert.Equal(t, "Jane Doe", s.Speaker)
	assert.Equal(t, 42, s.SpeakerID)
	assert.Equal(t, "2001-03-15", s.Date)
	assert.Equal(t, "Thursday", s.Day)
	assert.Equal(t, "09:31", s.Time)
	assert.Equal(t, "120", s.Duration)
	assert.Equal(t, "Mr Speaker, I rise today.\n\nThe budget is late.\n\nThank you.", s.Text)
	assert.Equal(t, 11, s.NumTokens)
	assert.Nil(t, s.CleanedText)

	assert.Equal(t, 1, stats.Speeches)
	assert.Equal(t, 1, stats.Skipped[internal.SkipNoSpeaker])

	members, _, err := ExtractMembers(strings.NewReader(sittingXML))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 42, members[0].MemberID)
	assert.Equal(t, "Jane Doe", members[0].FullName)
	assert.Equal(t, "ALP", members[0].Party)
	assert.Equal(t, "still_in_office", members[0].ToWhy)
}

func TestExtractSpeechFilters(t *testing.T) {
	doc := wrapXML(
		`<speech id="a/1" speakerid="a/member/1"><p>no name</p></speech>`,
		speechXML("2.1", "Jo Bloggs", "unknown", "<p>sentinel</p>"),
		speechXML("2.2", "Jo Bloggs", "a/member/3", "<p>  </p><p>\n</p>"),
		speechXML("2.3", "Jo Bloggs", "a/member/x", "<p>bad id</p>"),
		`<speech id="a/2.4" speakername="Jo Bloggs"><p>no id</p></speech>`,
		speechXML("2.5", "Jo Bloggs", "a/member/5", "<p>kept</p>"),
	)

	speeches, stats, err := ExtractSpeeches(strings.NewReader(doc), "2002-01-01.xml", internal.CorpusSenate)
	require.NoError(t, err)
	require.Len(t, speeches, 1)
	assert.Equal(t, "sen_2.5", speeches[0].SpeechID)
	assert.Equal(t, "Tuesday", speeches[0].Day)

	assert.Equal(t, map[internal.SkipReason]int{
		internal.SkipNoSpeaker:      1,
		internal.SkipUnknownSpeaker: 1,
		internal.SkipNoText:         1,
		internal.SkipInvalidSpeaker: 2,
	}, stats.Skipped)
	assert.Equal(t, 5, stats.TotalSkipped())
}

func TestExtractSentinelWithoutText(t *testing.T) {
	// The sentinel check runs before the paragraph check.
	doc := wrapXML(speechXML("1", "Jo", "unknown", ""))
	_, stats, err := ExtractSpeeches(strings.NewReader(doc), "2002-01-01.xml", internal.CorpusNone)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped[internal.SkipUnknownSpeaker])
	assert.Zero(t, stats.Skipped[internal.SkipNoText])
}

func TestExtractNumTokensMatchesText(t *testing.T) {
	doc := wrapXML(
		speechXML("1", "A", "m/1", "<p>one  two\tthree</p><p><b>four</b> five</p>"),
		speechXML("2", "B", "m/2", "<p>single</p>"),
	)
	speeches, _, err := ExtractSpeeches(strings.NewReader(doc), "2002-01-01.xml", internal.CorpusNone)
	require.NoError(t, err)
	require.Len(t, speeches, 2)
	for _, s := range speeches {
		assert.Equal(t, len(strings.Fields(s.Text)), s.NumTokens, s.SpeechID)
	}
	assert.Equal(t, "1", speeches[0].SpeechID)
	assert.Equal(t, "one  two\tthree\n\nfour five", speeches[0].Text)
}

func TestExtractTransliteratesAndDecodesLatin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<publicwhip>" +
		speechXML("1", "Jo", "m/1", "<p>Caf\xe9 &amp; cr\xe8me</p>") +
		"</publicwhip>"
	speeches, _, err := ExtractSpeeches(strings.NewReader(doc), "2002-01-01.xml", internal.CorpusNone)
	require.NoError(t, err)
	require.Len(t, speeches, 1)
	assert.Equal(t, "Cafe & creme", speeches[0].Text)
}

func TestExtractMalformedXMLIsFatal(t *testing.T) {
	speeches, _, err := ExtractSpeeches(strings.NewReader(wrapXML(speechXML("1", "Jo", "m/1", "<p>a&nbsp;b</p>"))), "2002-01-01.xml", internal.CorpusNone)
	require.NoError(t, err)
	require.Len(t, speeches, 1)
	assert.Equal(t, "a b", speeches[0].Text)

	for name, body := range map[string]string{
		"undefined entity": "<p>a &bogus; b</p>",
		"mismatched tags":  "<p><b>a</i></p>",
	} {
		_, _, err := ExtractSpeeches(strings.NewReader(wrapXML(speechXML("1", "Jo", "m/1", body))), "2002-01-01.xml", internal.CorpusNone)
		assert.Error(t, err, name)
	}

	_, _, err = ExtractSpeeches(strings.NewReader(`<publicwhip><speech speakername="Jo"><p>cut`), "2002-01-01.xml", internal.CorpusNone)
	assert.Error(t, err)
}

func TestExtractKeepsSpeakerNameVerbatim(t *testing.T) {
	doc := wrapXML(
		speechXML("1", "  ", "m/1", "<p>blank name</p>"),
		speechXML("2", " Jo  Bloggs ", "m/2", "<p>kept</p>"),
	)
	speeches, stats, err := ExtractSpeeches(strings.NewReader(doc), "2002-01-01.xml", internal.CorpusNone)
	require.NoError(t, err)
	require.Len(t, speeches, 1)
	assert.Equal(t, " Jo  Bloggs ", speeches[0].Speaker)
	assert.Equal(t, 1, stats.Skipped[internal.SkipNoSpeaker])
}

func TestExtractBadDateIsFatal(t *testing.T) {
	_, _, err := ExtractSpeeches(strings.NewReader(sittingXML), "hansard.xml", internal.CorpusNone)
	assert.ErrorIs(t, err, internal.ErrInvalidDate)

	_, err = ParseDate("2001-02-30.xml")
	assert.ErrorIs(t, err, internal.ErrInvalidDate)
}

func TestExtractMembersTolerance(t *testing.T) {
	members, stats, err := ExtractMembers(strings.NewReader(wrapXML(
		`<member id="uk.org.publicwhip/member/7"/>`,
		`<member id="uk.org.publicwhip/member/8" firstname="Solo"/>`,
	)))
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, 2, stats.Members)
	assert.Equal(t, internal.Member{MemberID: 7}, members[0])
	assert.Equal(t, "Solo", members[1].FullName)

	_, _, err = ExtractMembers(strings.NewReader(wrapXML(`<member firstname="No" lastname="Id"/>`)))
	assert.ErrorIs(t, err, internal.ErrMissingID)
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "2001-03-15.xml", sittingXML)

	tbl, _, err := ExtractFile(KindSpeeches, path, internal.CorpusRepresentatives)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	tbl, _, err = ExtractFile(KindMembers, path, internal.CorpusNone)
	require.NoError(t, err)
	names, err := tbl.Column("full_name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Doe"}, names)

	bad := filepath.Join(dir, "broken.xml")
	require.NoError(t, os.WriteFile(bad, []byte(sittingXML), 0o644))
	_, _, err = ExtractFile(KindSpeeches, bad, internal.CorpusNone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.xml")

	_, _, err = ExtractFile("votes", path, internal.CorpusNone)
	assert.Error(t, err)
}
