// Package session coordinates a practice session: it owns the practice clock
// and the score, merges the independently loaded chords, notes and track info,
// and drives the note-stream renderer and the chord trainer.
//
// A Coordinator is not safe for concurrent use. Every method is expected to be
// called from one cooperative event loop (the TUI's Update).
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"go-practice/debug"
	"go-practice/midi"
	"go-practice/track"
)

// Loader fetches the three parts of a track. Each call is independent and
// may complete in any order.
type Loader interface {
	LoadChords(ctx context.Context, id track.ID) ([]track.RawChord, error)
	LoadNotes(ctx context.Context, id track.ID) ([]track.NoteEvent, error)
	LoadTrackInfo(ctx context.Context, id track.ID) (track.Info, error)
}

// Renderer is the capability the coordinator holds on the note stream
type Renderer interface {
	Redraw(time float64)
}

// Trainer is the capability the coordinator holds on the chord trainer
type Trainer interface {
	Reset()
}

// Signals receives the trainer's verdicts on the learner's input
type Signals interface {
	OnMistake(key string)
	OnCorrectChord()
}

// Options configures a Coordinator
type Options struct {
	TimeScale       float64
	RewindOnRestart bool

	// KeyName maps MIDI codes to key names, midi.KeyName when nil
	KeyName func(uint8) string

	// Factories for the sub-systems, called once their data has loaded
	NewRenderer func(notes []track.NoteEvent, timeScale float64) Renderer
	NewTrainer  func(chords track.ChordSequence, signals Signals) Trainer
}

// Coordinator owns a single practice session
type Coordinator struct {
	id      string
	trackID track.ID
	opts    Options
	state   State
	closed  bool

	chords *track.ChordSequence
	notes  []track.NoteEvent
	info   *track.Info

	renderer Renderer
	trainer  Trainer

	loadErrs map[Part]error
}

// Part names one of the three independently loaded parts of a track
type Part string

const (
	PartChords Part = "chords"
	PartNotes  Part = "notes"
	PartInfo   Part = "info"
)

// New starts a session for trackID. An empty id is an inert free-play session.
func New(trackID track.ID, opts Options) *Coordinator {
	if opts.KeyName == nil {
		opts.KeyName = midi.KeyName
	}
	if opts.TimeScale <= 0 {
		opts.TimeScale = 2
	}
	c := &Coordinator{
		id:       uuid.NewString(),
		trackID:  trackID,
		opts:     opts,
		loadErrs: make(map[Part]error),
	}
	debug.Log("session", "start %s track=%q", c.id, trackID)
	return c
}

// ID returns the unique id of this session, used to drop events meant for an earlier one
func (c *Coordinator) ID() string {
	return c.id
}

// TrackID returns the track being practiced
func (c *Coordinator) TrackID() track.ID {
	return c.trackID
}

// FreePlay reports whether the session has no track
func (c *Coordinator) FreePlay() bool {
	return c.trackID.FreePlay()
}

// Active reports whether the session still accepts events
func (c *Coordinator) Active() bool {
	return !c.closed && !c.FreePlay()
}

// State returns the current snapshot
func (c *Coordinator) State() State {
	return c.state
}

// Chords returns the loaded chord sequence, ok is false until it loads
func (c *Coordinator) Chords() (track.ChordSequence, bool) {
	if c.chords == nil {
		return track.ChordSequence{}, false
	}
	return *c.chords, true
}

// Renderer returns the note-stream renderer, nil until the notes load
func (c *Coordinator) Renderer() Renderer {
	return c.renderer
}

// Trainer returns the chord trainer, nil until the chords load
func (c *Coordinator) Trainer() Trainer {
	return c.trainer
}

// LoadError returns the failure of a part, if any
func (c *Coordinator) LoadError(p Part) error {
	return c.loadErrs[p]
}

func (c *Coordinator) total() int {
	if c.chords == nil {
		return 0
	}
	return c.chords.Len()
}

func (c *Coordinator) times() []float64 {
	if c.chords == nil {
		return nil
	}
	return c.chords.Times
}

// apply commits next if it satisfies the session invariants. clock adds the
// checks on how PlaybackTime may move, which a restart is exempt from.
func (c *Coordinator) apply(event string, next State, clock bool) bool {
	err := next.Validate(c.total())
	if err == nil && clock {
		err = validateAdvance(c.state, next, c.times())
	}
	if err != nil {
		debug.Error("session", err, "%s rejected in %s", event, c.id)
		return false
	}
	c.state = next
	return true
}

// OnChordsLoaded maps and stores the chord sequence, then starts the trainer.
// Malformed data is returned and leaves the chords unloaded.
func (c *Coordinator) OnChordsLoaded(raw []track.RawChord) error {
	if !c.Active() {
		return nil
	}
	seq, err := track.MapChords(raw, c.opts.KeyName)
	if err != nil {
		err = fmt.Errorf("load chords for %s: %w", c.trackID, err)
		c.loadErrs[PartChords] = err
		debug.Error("session", err, "chords rejected")
		return err
	}
	c.chords = &seq
	delete(c.loadErrs, PartChords)
	if c.opts.NewTrainer != nil {
		c.trainer = c.opts.NewTrainer(seq, c)
	}
	debug.Log("session", "%s: %d chords loaded", c.id, seq.Len())
	return nil
}

// OnNotesLoaded stores the note stream, then starts the renderer
func (c *Coordinator) OnNotesLoaded(notes []track.NoteEvent) {
	if !c.Active() {
		return
	}
	if notes == nil {
		notes = []track.NoteEvent{}
	}
	c.notes = notes
	if c.opts.NewRenderer != nil {
		c.renderer = c.opts.NewRenderer(notes, c.opts.TimeScale)
	}
	debug.Log("session", "%s: %d notes loaded", c.id, len(notes))
}

// OnTrackInfoLoaded stores the track metadata
func (c *Coordinator) OnTrackInfoLoaded(info track.Info) {
	if !c.Active() {
		return
	}
	c.info = &info
}

// OnLoadFailed records a failed load. The part stays unloaded and whatever
// depends on it never starts.
func (c *Coordinator) OnLoadFailed(p Part, err error) {
	if !c.Active() {
		return
	}
	c.loadErrs[p] = err
	debug.Error("session", err, "%s: load %s failed", c.id, p)
}

// Frame is the per-frame callback, now is the frame timestamp in seconds
func (c *Coordinator) Frame(now float64) {
	if !c.Active() {
		return
	}
	c.apply("frame", c.state.Frame(now, c.renderer != nil, c.times()), true)
	if c.renderer != nil {
		c.renderer.Redraw(c.state.PlaybackTime)
	}
	debug.LogEvery(600, "frame", "%s t=%.3f chord=%d", c.id, c.state.PlaybackTime, c.state.ChordIndex)
}

// OnMistake is called by the trainer for each wrong key
func (c *Coordinator) OnMistake(key string) {
	if !c.Active() {
		return
	}
	c.apply("mistake", c.state.Mistake(c.total()), true)
	debug.Log("session", "%s: mistake %s on chord %d", c.id, key, c.state.ChordIndex)
}

// OnCorrectChord is called by the trainer when the active chord is matched
func (c *Coordinator) OnCorrectChord() {
	if !c.Active() {
		return
	}
	c.apply("correct chord", c.state.CorrectChord(c.total()), true)
}

// Restart clears progress and score and resets the trainer
func (c *Coordinator) Restart() {
	if !c.Active() {
		return
	}
	if c.apply("restart", c.state.Restart(c.opts.RewindOnRestart), false) && c.trainer != nil {
		c.trainer.Reset()
	}
	debug.Log("session", "%s: restart (rewind=%v)", c.id, c.opts.RewindOnRestart)
}

// Close tears the session down. Later events are ignored.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	debug.Log("session", "close %s", c.id)
}
