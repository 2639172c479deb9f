package session

import (
	"fmt"
	"math"
)

// NotStarted is shown instead of an accuracy before the first chord is completed
const NotStarted = "Start playing!"

// Display is everything the practice screen shows about a session
type Display struct {
	TrackName string
	HasName   bool
	Completed int
	Total     int
	Accuracy  float64
	Started   bool
	Phase     Phase
	FreePlay  bool

	ChordsLoaded bool
	NotesLoaded  bool
	Errors       []error
}

// Progress returns completed/total in [0, 1], 0 while no chords are loaded
func (d Display) Progress() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Completed) / float64(d.Total)
}

// AccuracyText is "Correct: 75%", or the not-started placeholder
func (d Display) AccuracyText() string {
	if !d.Started {
		return NotStarted
	}
	return fmt.Sprintf("Correct: %d%%", int(math.Round(d.Accuracy)))
}

// Display derives the display values from the current state
func (c *Coordinator) Display() Display {
	d := Display{
		Completed:    c.state.ChordIndex,
		Total:        c.total(),
		Phase:        c.state.Phase(c.total()),
		FreePlay:     c.FreePlay(),
		ChordsLoaded: c.chords != nil,
		NotesLoaded:  c.renderer != nil || c.notes != nil,
	}
	if c.info != nil {
		d.TrackName = c.info.Name
		d.HasName = true
	}
	d.Accuracy, d.Started = c.state.Accuracy()
	for _, p := range []Part{PartChords, PartNotes, PartInfo} {
		if err := c.loadErrs[p]; err != nil {
			d.Errors = append(d.Errors, err)
		}
	}
	return d
}
