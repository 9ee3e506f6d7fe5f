// Package transcript decodes speaker-attributed transcript documents produced
// by the speech-to-text stage.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UnknownSpeaker is used for segments that carry no speaker label.
const UnknownSpeaker = "UNKNOWN"

// DispatcherSpeaker is the diarization label conventionally assigned to the
// call taker.
const DispatcherSpeaker = "SPEAKER_01"

// ErrNoSegments is returned when a document has no segments array.
var ErrNoSegments = errors.New("transcript: document has no segments")

// Segment is one diarized utterance.
type Segment struct {
	Start   float64 `json:"start" validate:"gte=0"`
	End     float64 `json:"end" validate:"gtefield=Start"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Document is a transcript as emitted by the transcription service.
type Document struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments" validate:"dive"`
}

var validate = validator.New()

// Parse decodes and validates a transcript document.
func Parse(r io.Reader) (*Document, error) {
	var raw struct {
		Language string     `json:"language"`
		Segments *[]Segment `json:"segments"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	if raw.Segments == nil {
		return nil, ErrNoSegments
	}

	doc := &Document{Language: raw.Language, Segments: *raw.Segments}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	doc.fillSpeakers()
	return doc, nil
}

// Validate checks segment timing.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid transcript: %w", err)
	}
	return nil
}

func (d *Document) fillSpeakers() {
	for i := range d.Segments {
		if strings.TrimSpace(d.Segments[i].Speaker) == "" {
			d.Segments[i].Speaker = UnknownSpeaker
		}
	}
}

// Text joins the trimmed text of every segment with newlines. When speakers
// are given only their segments are included; unlabelled segments match
// UnknownSpeaker.
func (d *Document) Text(speakers ...string) string {
	var sb strings.Builder
	for _, seg := range d.Segments {
		if len(speakers) > 0 && !containsSpeaker(speakers, speakerOrUnknown(seg.Speaker)) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.TrimSpace(seg.Text))
	}
	return sb.String()
}

// Format renders one line per segment as "[MM:SS.s–MM:SS.s] SPEAKER: text".
func (d *Document) Format() string {
	var sb strings.Builder
	for _, seg := range d.Segments {
		fmt.Fprintf(&sb, "[%s–%s] %s: %s\n",
			timestamp(seg.Start), timestamp(seg.End), speakerOrUnknown(seg.Speaker), strings.TrimSpace(seg.Text))
	}
	return sb.String()
}

// Speakers returns the distinct speaker labels in order of first appearance.
func (d *Document) Speakers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, seg := range d.Segments {
		s := speakerOrUnknown(seg.Speaker)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func timestamp(seconds float64) string {
	minutes := int(seconds / 60)
	rest := seconds - float64(minutes*60)
	return fmt.Sprintf("%02d:%04.1f", minutes, rest)
}

func speakerOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownSpeaker
	}
	return s
}

func containsSpeaker(speakers []string, s string) bool {
	for _, sp := range speakers {
		if strings.EqualFold(sp, s) {
			return true
		}
	}
	return false
}
