package library

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go-practice/track"
)

// ErrUnreadable marks a file that is not a usable standard MIDI file
var ErrUnreadable = errors.New("unreadable midi")

// ChordWindow is how close note onsets must be to sound as one chord
const ChordWindow = 0.030

// Score is what a MIDI file yields for practice
type Score struct {
	Name   string
	Notes  []track.NoteEvent
	Chords []track.RawChord
}

type onset struct {
	at  float64
	vel uint8
}

type noteKey struct {
	channel, key uint8
}

// Parse reads a standard MIDI file. Times come from the file's tempo map.
func Parse(r io.Reader) (score *Score, err error) {
	// gomidi can panic on truncated files
	defer func() {
		if rec := recover(); rec != nil {
			score = nil
			err = fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	score = &Score{}
	open := map[noteKey][]onset{}
	var last float64

	reader := smf.ReadTracksFrom(r)
	reader.Do(func(ev smf.TrackEvent) {
		at := float64(ev.AbsMicroSeconds) / 1_000_000
		last = max(last, at)

		var name string
		var ch, key, vel uint8
		switch {
		case ev.Message.GetMetaTrackName(&name):
			if score.Name == "" {
				score.Name = name
			}
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			k := noteKey{ch, key}
			open[k] = append(open[k], onset{at: at, vel: vel})
		case ev.Message.GetNoteEnd(&ch, &key):
			k := noteKey{ch, key}
			starts := open[k]
			if len(starts) == 0 {
				return
			}
			on := starts[0]
			open[k] = starts[1:]
			score.Notes = append(score.Notes, track.NoteEvent{
				Note:     key,
				Time:     on.at,
				Duration: at - on.at,
				Velocity: on.vel,
			})
		}
	})
	if rerr := reader.Error(); rerr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, rerr)
	}

	// notes still sounding at the end run to the last event
	for k, starts := range open {
		for _, on := range starts {
			score.Notes = append(score.Notes, track.NoteEvent{
				Note:     k.key,
				Time:     on.at,
				Duration: last - on.at,
				Velocity: on.vel,
			})
		}
	}

	sort.SliceStable(score.Notes, func(i, j int) bool {
		a, b := score.Notes[i], score.Notes[j]
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.Note < b.Note
	})
	score.Chords = GroupChords(score.Notes, ChordWindow)
	return score, nil
}

// GroupChords folds notes whose onsets lie within window of the first onset
// of a group into one chord. notes must be sorted by time.
func GroupChords(notes []track.NoteEvent, window float64) []track.RawChord {
	var chords []track.RawChord
	var start float64
	group := map[uint8]struct{}{}

	flush := func() {
		if len(group) == 0 {
			return
		}
		keys := maps.Keys(group)
		slices.Sort(keys)
		chords = append(chords, track.NewRawChord(start, keys...))
		maps.Clear(group)
	}

	for _, n := range notes {
		if len(group) > 0 && n.Time-start > window {
			flush()
		}
		if len(group) == 0 {
			start = n.Time
		}
		group[n.Note] = struct{}{}
	}
	flush()
	return chords
}
