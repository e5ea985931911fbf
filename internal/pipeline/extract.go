package pipeline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"debatetxt/internal"
	"debatetxt/internal/observability/logging"
	"debatetxt/internal/util"
)

const (
	speechTag        = "speech"
	memberTag        = "member"
	paragraphTag     = "p"
	unknownSpeakerID = "unknown"
	dateLayout       = "2006-01-02"
)

// ParseDate derives the sitting date from a transcript file name such as
// "2001-03-15.xml".
func ParseDate(fileName string) (time.Time, error) {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	date, err := time.Parse(dateLayout, stem)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", internal.ErrInvalidDate, stem)
	}
	return date, nil
}

func ExtractSpeechesFromFile(path string, corpus internal.Corpus) ([]internal.Speech, internal.ExtractStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internal.ExtractStats{}, err
	}
	defer f.Close()
	return ExtractSpeeches(f, filepath.Base(path), corpus)
}

func ExtractMembersFromFile(path string) ([]internal.Member, internal.ExtractStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, internal.ExtractStats{}, err
	}
	defer f.Close()
	return ExtractMembers(f)
}

// ExtractSpeeches reads every speech element of one transcript. Elements
// without a speaker name, with the unknown speaker sentinel, with an unusable
// speaker id, or without paragraph text are dropped and counted in the stats.
func ExtractSpeeches(r io.Reader, fileName string, corpus internal.Corpus) ([]internal.Speech, internal.ExtractStats, error) {
	stats := internal.ExtractStats{}
	date, err := ParseDate(fileName)
	if err != nil {
		return nil, stats, err
	}
	logger := logging.WithComponent("extract")

	out := []internal.Speech{}
	dec := newDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != speechTag {
			continue
		}

		el, err := decodeSpeech(dec, start)
		if err != nil {
			return nil, stats, err
		}
		speech, reason := el.toSpeech(date, corpus)
		if reason != "" {
			stats.Skip(reason)
			logger.Debug().Str("file", fileName).Str("id", el.attrs["id"]).Str("reason", string(reason)).Msg("speech skipped")
			continue
		}
		out = append(out, speech)
	}

	stats.Speeches = len(out)
	return out, stats, nil
}

// ExtractMembers reads every member element. Only the id attribute is
// required; missing attributes become empty strings.
func ExtractMembers(r io.Reader) ([]internal.Member, internal.ExtractStats, error) {
	stats := internal.ExtractStats{}
	out := []internal.Member{}
	dec := newDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != memberTag {
			continue
		}

		attrs := attrMap(start.Attr)
		if err := dec.Skip(); err != nil {
			return nil, stats, err
		}
		member, err := toMember(attrs)
		if err != nil {
			return nil, stats, err
		}
		out = append(out, member)
	}

	stats.Members = len(out)
	return out, stats, nil
}

type speechElement struct {
	attrs      map[string]string
	paragraphs []string
}

// decodeSpeech consumes the element opened by start. Text of every direct p
// child is collected with inline markup removed.
func decodeSpeech(dec *xml.Decoder, start xml.StartElement) (speechElement, error) {
	el := speechElement{attrs: attrMap(start.Attr)}

	depth := 1
	var current *strings.Builder
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return el, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if current == nil && depth == 2 && t.Name.Local == paragraphTag {
				current = &strings.Builder{}
			}
		case xml.EndElement:
			if current != nil && depth == 2 {
				if text := strings.TrimSpace(current.String()); text != "" {
					el.paragraphs = append(el.paragraphs, text)
				}
				current = nil
			}
			depth--
		case xml.CharData:
			if current != nil {
				current.Write(t)
			}
		}
	}
	return el, nil
}

func (el speechElement) toSpeech(date time.Time, corpus internal.Corpus) (internal.Speech, internal.SkipReason) {
	speaker := el.attrs["speakername"]
	if strings.TrimSpace(speaker) == "" {
		return internal.Speech{}, internal.SkipNoSpeaker
	}
	rawSpeakerID, hasSpeakerID := el.attrs["speakerid"]
	if rawSpeakerID == unknownSpeakerID {
		return internal.Speech{}, internal.SkipUnknownSpeaker
	}
	if len(el.paragraphs) == 0 {
		return internal.Speech{}, internal.SkipNoText
	}
	if !hasSpeakerID {
		return internal.Speech{}, internal.SkipInvalidSpeaker
	}
	speakerID, err := util.ParseTrailingInt(rawSpeakerID)
	if err != nil {
		return internal.Speech{}, internal.SkipInvalidSpeaker
	}

	text := util.ToASCII(strings.Join(el.paragraphs, "\n\n"))
	return internal.Speech{
		SpeechID:  SpeechID(el.attrs["id"], corpus),
		Speaker:   speaker,
		SpeakerID: speakerID,
		Date:      date.Format(dateLayout),
		Day:       date.Weekday().String(),
		Time:      el.attrs["time"],
		Duration:  el.attrs["approximate_duration"],
		Text:      text,
		NumTokens: util.CountTokens(text),
	}, ""
}

// SpeechID qualifies the trailing segment of a speech id attribute with the
// corpus prefix, e.g. "hr_2001-03-15.12.1".
func SpeechID(rawID string, corpus internal.Corpus) string {
	segment := util.TrailingSegment(rawID)
	if prefix := corpus.Prefix(); prefix != "" {
		return prefix + "_" + segment
	}
	return segment
}

func toMember(attrs map[string]string) (internal.Member, error) {
	id, err := util.ParseTrailingInt(attrs["id"])
	if err != nil {
		return internal.Member{}, fmt.Errorf("%w: %v", internal.ErrMissingID, err)
	}
	first := attrs["firstname"]
	last := attrs["lastname"]
	return internal.Member{
		MemberID:  id,
		FirstName: first,
		LastName:  last,
		FullName:  util.NormalizeSpaces(first + " " + last),
		Division:  attrs["division"],
		House:     attrs["house"],
		Party:     attrs["party"],
		FromDate:  attrs["fromdate"],
		FromWhy:   attrs["fromwhy"],
		ToDate:    attrs["todate"],
		ToWhy:     attrs["towhy"],
	}, nil
}

// newDecoder accepts the HTML entities and unclosed inline tags found in
// scraped transcripts.
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	// Strict, but HTML entity names such as &nbsp; resolve. Undefined
	// entities and unbalanced tags are decode errors.
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

func attrMap(attrs []xml.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[a.Name.Local] = a.Value
	}
	return out
}
