package midi

import (
	"fmt"
	"strconv"
	"strings"
)

var keyNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var naturals = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// KeyName converts a MIDI note code to a key name, e.g. 60 -> "C4", 61 -> "C#4".
// Middle C is C4, so code 0 is "C-1".
func KeyName(code uint8) string {
	octave := int(code)/12 - 1
	return fmt.Sprintf("%s%d", keyNames[code%12], octave)
}

// KeyCode is the inverse of KeyName. Flats ("Db4") are accepted as well.
func KeyCode(name string) (uint8, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("invalid key name %q", name)
	}

	pitch, ok := naturals[strings.ToUpper(name[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("invalid key name %q", name)
	}

	rest := name[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		pitch++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		pitch--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid key name %q: %w", name, err)
	}

	code := (octave+1)*12 + pitch
	if code < 0 || code > 127 {
		return 0, fmt.Errorf("key %q out of MIDI range", name)
	}
	return uint8(code), nil
}

// IsAccidental reports whether code is a black key
func IsAccidental(code uint8) bool {
	return strings.Contains(keyNames[code%12], "#")
}
