// Package tui is the terminal front end: a track list and a practice screen.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go-practice/config"
	"go-practice/debug"
	"go-practice/midi"
	"go-practice/notestream"
	"go-practice/session"
	"go-practice/theme"
	"go-practice/track"
	"go-practice/trainer"
)

// Catalog is where tracks come from: the track server or a local library
type Catalog interface {
	session.Loader
	ListTracks(ctx context.Context) ([]track.Info, error)
}

type screen int

const (
	screenTracks screen = iota
	screenPractice
)

type Model struct {
	catalog   Catalog
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme
	cfg       *config.Config
	qwerty    *midi.Qwerty
	epoch     time.Time

	screen        screen
	tracks        []track.Info
	tracksErr     error
	tracksLoading bool
	cursor        int
	startWith     *track.ID

	sess      *session.Coordinator
	keyboards map[string]midi.Controller
	pressed   map[string]map[uint8]bool // keys held, per hardware keyboard
	lastKey   string
	showHelp  bool
	width     int
	height    int
	quitting  bool
}

// Options for NewModel
type Options struct {
	// Start goes straight to practicing this track instead of the list
	Start *track.ID
}

// NewModel creates the TUI. deviceMgr may be nil when no MIDI input is wanted.
func NewModel(catalog Catalog, deviceMgr *midi.DeviceManager, th *theme.Theme, cfg *config.Config, opts Options) Model {
	return Model{
		catalog:   catalog,
		DeviceMgr: deviceMgr,
		Theme:     th,
		cfg:       cfg,
		qwerty:    midi.NewQwerty(cfg.Keyboard.Octave),
		epoch:     time.Now(),
		startWith: opts.Start,
		keyboards: make(map[string]midi.Controller),
		pressed:   make(map[string]map[uint8]bool),
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	if m.startWith != nil {
		cmds = append(cmds, func() tea.Msg { return startMsg{id: *m.startWith} })
	} else {
		cmds = append(cmds, loadTracks(m.catalog))
	}
	return tea.Batch(cmds...)
}

type startMsg struct {
	id track.ID
}

// Session returns the running session, nil on the track list
func (m Model) Session() *session.Coordinator {
	return m.sess
}

// startSession tears down any running session and starts one for id
func (m Model) startSession(id track.ID) (Model, tea.Cmd) {
	if m.sess != nil {
		m.sess.Close()
	}

	styles := m.streamStyles()
	m.sess = session.New(id, session.Options{
		TimeScale:       m.cfg.Session.TimeScale,
		RewindOnRestart: m.cfg.Session.RewindOnRestart,
		NewRenderer: func(notes []track.NoteEvent, timeScale float64) session.Renderer {
			s := notestream.New(notes, timeScale)
			s.Styles = styles
			return s
		},
		NewTrainer: func(chords track.ChordSequence, signals session.Signals) session.Trainer {
			return trainer.New(chords, signals)
		},
	})
	m.screen = screenPractice
	m.lastKey = ""

	if id.FreePlay() {
		return m, nil
	}
	sid := m.sess.ID()
	return m, tea.Batch(
		loadChords(m.catalog, sid, id),
		loadNotes(m.catalog, sid, id),
		loadInfo(m.catalog, sid, id),
		nextFrame(sid, m.cfg.Session.FrameInterval()),
	)
}

// leaveSession is teardown: the session stops accepting events and its
// frame loop dies with the next tick
func (m Model) leaveSession() (Model, tea.Cmd) {
	if m.sess != nil {
		m.sess.Close()
		m.sess = nil
	}
	m.screen = screenTracks
	if m.tracks == nil && !m.tracksLoading {
		m.tracksLoading = true
		return m, loadTracks(m.catalog)
	}
	return m, nil
}

// current reports whether a message belongs to the running session
func (m Model) current(sessionID string) bool {
	return m.sess != nil && m.sess.ID() == sessionID && m.sess.Active()
}

func (m Model) chordTrainer() *trainer.ChordTrainer {
	if m.sess == nil {
		return nil
	}
	t, _ := m.sess.Trainer().(*trainer.ChordTrainer)
	return t
}

func (m Model) stream() *notestream.Stream {
	if m.sess == nil {
		return nil
	}
	s, _ := m.sess.Renderer().(*notestream.Stream)
	return s
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			if m.sess != nil {
				m.sess.Close()
			}
			return m, tea.Quit
		}
		if msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			if msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.screen == screenTracks {
			return m.updateTracks(msg)
		}
		return m.updatePractice(msg)

	case startMsg:
		return m.startSession(msg.id)

	case TracksChangedMsg:
		return m, loadTracks(m.catalog)

	case tracksLoadedMsg:
		m.tracksLoading = false
		m.tracks, m.tracksErr = msg.tracks, msg.err
		if m.tracks == nil {
			m.tracks = []track.Info{}
		}
		m.cursor = min(m.cursor, len(m.tracks))

	case chordsLoadedMsg:
		if !m.current(msg.session) {
			return m, nil
		}
		if msg.err != nil {
			m.sess.OnLoadFailed(session.PartChords, msg.err)
		} else {
			// malformed chords are recorded on the session and shown
			_ = m.sess.OnChordsLoaded(msg.chords)
		}

	case notesLoadedMsg:
		if !m.current(msg.session) {
			return m, nil
		}
		if msg.err != nil {
			m.sess.OnLoadFailed(session.PartNotes, msg.err)
		} else {
			m.sess.OnNotesLoaded(msg.notes)
		}

	case infoLoadedMsg:
		if !m.current(msg.session) {
			return m, nil
		}
		if msg.err != nil {
			m.sess.OnLoadFailed(session.PartInfo, msg.err)
		} else {
			m.sess.OnTrackInfoLoaded(msg.info)
		}

	case frameMsg:
		if !m.current(msg.session) {
			return m, nil
		}
		m.sess.Frame(msg.at.Sub(m.epoch).Seconds())
		return m, nextFrame(msg.session, m.cfg.Session.FrameInterval())

	case DeviceEventMsg:
		return m.updateDevice(midi.DeviceEvent(msg))

	case noteMsg:
		if !msg.ok {
			return m, nil
		}
		ctrl, ok := m.keyboards[msg.controller]
		if !ok {
			return m, nil
		}
		m.playNote(msg.controller, msg.event)
		return m, listenForNotes(ctrl)
	}

	return m, nil
}

func (m Model) updateTracks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// entry 0 is free play
	n := len(m.tracks) + 1
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = n - 1
	case "r":
		m.tracksLoading = true
		return m, loadTracks(m.catalog)
	case "enter":
		if m.cursor == 0 {
			return m.startSession("")
		}
		if m.cursor-1 < len(m.tracks) {
			return m.startSession(m.tracks[m.cursor-1].ID)
		}
	}
	return m, nil
}

func (m Model) updatePractice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.leaveSession()
	case "r":
		if m.sess != nil {
			m.sess.Restart()
		}
	case "z":
		m.qwerty.Shift(-1)
	case "x":
		m.qwerty.Shift(1)
	default:
		if code, ok := m.qwerty.Note(msg.String()); ok {
			m.lastKey = midi.KeyName(code)
			if t := m.chordTrainer(); t != nil {
				t.KeyDown(m.lastKey)
			}
		}
	}
	return m, nil
}

func (m *Model) playNote(controller string, evt midi.NoteEvent) {
	key := evt.Key()
	if evt.Pressed() {
		if m.pressed[controller] == nil {
			m.pressed[controller] = make(map[uint8]bool)
		}
		m.pressed[controller][evt.Note] = true
		m.lastKey = key
		if t := m.chordTrainer(); t != nil {
			t.KeyDown(key)
		}
		return
	}
	delete(m.pressed[controller], evt.Note)
	if t := m.chordTrainer(); t != nil && !m.held(evt.Note) {
		t.KeyUp(key)
	}
}

// held reports whether any hardware keyboard holds note
func (m Model) held(note uint8) bool {
	for _, keys := range m.pressed {
		if keys[note] {
			return true
		}
	}
	return false
}

// heldNotes is the union of the keys held on all hardware keyboards
func (m Model) heldNotes() []uint8 {
	var notes []uint8
	for _, keys := range m.pressed {
		for n := range keys {
			if !slices.Contains(notes, n) {
				notes = append(notes, n)
			}
		}
	}
	slices.Sort(notes)
	return notes
}

func (m Model) updateDevice(event midi.DeviceEvent) (tea.Model, tea.Cmd) {
	next := ListenForDevices(m.DeviceMgr)
	switch event.Type {
	case midi.DeviceConnected:
		m.keyboards[event.ID] = event.Controller
		debug.Log("tui", "keyboard connected: %s", event.ID)
		return m, tea.Batch(next, listenForNotes(event.Controller))
	case midi.DeviceDisconnected:
		delete(m.keyboards, event.ID)
		released := maps.Keys(m.pressed[event.ID])
		delete(m.pressed, event.ID)
		if t := m.chordTrainer(); t != nil {
			for _, n := range released {
				if !m.held(n) {
					t.KeyUp(midi.KeyName(n))
				}
			}
		}
		debug.Log("tui", "keyboard disconnected: %s", event.ID)
	}
	return m, next
}

// Keyboards returns the ids of the connected keyboards
func (m Model) Keyboards() []string {
	ids := maps.Keys(m.keyboards)
	slices.Sort(ids)
	return ids
}
