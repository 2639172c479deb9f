package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-practice/midi"
	"go-practice/track"
)

// Messages that belong to a session carry its id. The model drops any whose
// session has since been closed or replaced.

type tracksLoadedMsg struct {
	tracks []track.Info
	err    error
}

type chordsLoadedMsg struct {
	session string
	chords  []track.RawChord
	err     error
}

type notesLoadedMsg struct {
	session string
	notes   []track.NoteEvent
	err     error
}

type infoLoadedMsg struct {
	session string
	info    track.Info
	err     error
}

type frameMsg struct {
	session string
	at      time.Time
}

// TracksChangedMsg asks the model to reload the track list
type TracksChangedMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type noteMsg struct {
	controller string
	event      midi.NoteEvent
	ok         bool
}

func loadTracks(c Catalog) tea.Cmd {
	return func() tea.Msg {
		tracks, err := c.ListTracks(context.Background())
		return tracksLoadedMsg{tracks: tracks, err: err}
	}
}

func loadChords(c Catalog, session string, id track.ID) tea.Cmd {
	return func() tea.Msg {
		chords, err := c.LoadChords(context.Background(), id)
		return chordsLoadedMsg{session: session, chords: chords, err: err}
	}
}

func loadNotes(c Catalog, session string, id track.ID) tea.Cmd {
	return func() tea.Msg {
		notes, err := c.LoadNotes(context.Background(), id)
		return notesLoadedMsg{session: session, notes: notes, err: err}
	}
}

func loadInfo(c Catalog, session string, id track.ID) tea.Cmd {
	return func() tea.Msg {
		info, err := c.LoadTrackInfo(context.Background(), id)
		return infoLoadedMsg{session: session, info: info, err: err}
	}
}

// nextFrame schedules the next frame of a session
func nextFrame(session string, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg{session: session, at: t}
	})
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func listenForNotes(ctrl midi.Controller) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ctrl.NoteEvents()
		return noteMsg{controller: ctrl.ID(), event: evt, ok: ok}
	}
}
