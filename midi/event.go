package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// NoteEvent is sent when a key goes down or up on a keyboard.
// A NoteOn with zero velocity is treated as NoteOff.
type NoteEvent struct {
	Type     uint8 // NoteOn, NoteOff
	Note     uint8
	Velocity uint8
	Channel  uint8
}

// Pressed reports whether the event puts a key down
func (e NoteEvent) Pressed() bool {
	return e.Type == NoteOn && e.Velocity > 0
}

// Key returns the key name of the event's note
func (e NoteEvent) Key() string {
	return KeyName(e.Note)
}
