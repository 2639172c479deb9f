// Package track holds the data a practice session is built from: the chord
// sequence the learner has to play, the raw note stream that scrolls past and
// the display metadata of the track.
package track

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by loaders when a track id is unknown.
	ErrNotFound = errors.New("track not found")

	// ErrMalformedChord is returned when chord data is missing fields or is out of order.
	ErrMalformedChord = errors.New("malformed chord")
)

// ID identifies a track. The empty ID means free play.
type ID string

// FreePlay reports whether id selects free play (no track loaded).
func (id ID) FreePlay() bool {
	return id == ""
}

// Info is the display metadata of a track
type Info struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// NoteEvent is a single note of the raw note stream.
// Times are in seconds from the start of the track.
type NoteEvent struct {
	Note     uint8   `json:"note"`
	Time     float64 `json:"time"`
	Duration float64 `json:"duration"`
	Velocity uint8   `json:"velocity"`
}

// End returns the time the note is released
func (n NoteEvent) End() float64 {
	return n.Time + n.Duration
}

// RawChord is the wire form of a chord: MIDI codes plus a scheduled time.
// Both fields are pointers/nil-able so a missing field can be told apart
// from a zero value.
type RawChord struct {
	Notes Codes    `json:"notes"`
	Time  *float64 `json:"time"`
}

// Codes is a list of MIDI codes. It encodes as a JSON array of numbers
// rather than the base64 string used for plain byte slices.
type Codes []uint8

func (c Codes) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	ints := make([]int, len(c))
	for i, v := range c {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON accepts null or an array of MIDI codes (0..127).
func (c *Codes) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var ints []int
	if err := json.Unmarshal(b, &ints); err != nil {
		return fmt.Errorf("%w: notes is not an array of MIDI codes", ErrMalformedChord)
	}
	out := make(Codes, len(ints))
	for i, v := range ints {
		if v < 0 || v > 127 {
			return fmt.Errorf("%w: note %d out of range", ErrMalformedChord, v)
		}
		out[i] = uint8(v)
	}
	*c = out
	return nil
}

// NewRawChord builds a RawChord with the given time and notes
func NewRawChord(time float64, notes ...uint8) RawChord {
	if notes == nil {
		notes = []uint8{}
	}
	return RawChord{Notes: notes, Time: &time}
}
