package midi

// Computer-keyboard piano: the home row plays naturals and the row above
// plays accidentals, starting at C.
var qwertyKeys = []string{"a", "w", "s", "e", "d", "f", "t", "g", "y", "h", "u", "j", "k", "o", "l", "p", ";", "'"}

const (
	MinOctave = 0
	MaxOctave = 8
)

// Qwerty maps terminal key presses to MIDI notes
type Qwerty struct {
	octave int
}

// NewQwerty creates a mapping whose "a" key plays C of the given octave
func NewQwerty(octave int) *Qwerty {
	q := &Qwerty{}
	q.SetOctave(octave)
	return q
}

// Octave returns the octave of the "a" key
func (q *Qwerty) Octave() int {
	return q.octave
}

// SetOctave clamps and sets the octave
func (q *Qwerty) SetOctave(octave int) {
	if octave < MinOctave {
		octave = MinOctave
	}
	if octave > MaxOctave {
		octave = MaxOctave
	}
	q.octave = octave
}

// Shift moves the mapping by n octaves
func (q *Qwerty) Shift(n int) {
	q.SetOctave(q.octave + n)
}

// Note returns the MIDI note for a terminal key, ok is false for unmapped keys
func (q *Qwerty) Note(key string) (note uint8, ok bool) {
	for i, k := range qwertyKeys {
		if k == key {
			code := (q.octave+1)*12 + i
			if code > 127 {
				return 0, false
			}
			return uint8(code), true
		}
	}
	return 0, false
}

// Range returns the lowest and highest notes reachable from the keyboard
func (q *Qwerty) Range() (lo, hi uint8) {
	lo = uint8((q.octave + 1) * 12)
	hi = lo + uint8(len(qwertyKeys)-1)
	if hi > 127 {
		hi = 127
	}
	return lo, hi
}
