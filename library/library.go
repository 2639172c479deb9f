// Package library serves tracks from a directory of standard MIDI files.
package library

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-practice/debug"
	"go-practice/track"
)

// namespace for track ids derived from file paths
var namespace = uuid.MustParse("6f1c3a52-8d0e-4b8f-9a57-2f3d4c1b7e90")

type entry struct {
	info    track.Info
	path    string
	modTime time.Time
	size    int64
}

func (e entry) revision() string {
	return fmt.Sprintf("%x-%x", e.modTime.UnixNano(), e.size)
}

type parsed struct {
	revision string
	score    *Score
}

// Library is a catalog of the MIDI files under one directory. It is safe
// for concurrent use.
type Library struct {
	dir   string
	parse func(io.Reader) (*Score, error)

	mu      sync.RWMutex
	entries map[track.ID]entry
	order   []track.ID
	scores  map[track.ID]parsed
	parsing map[track.ID]*sync.Mutex // one parse at a time per track
}

// Open scans dir and returns its catalog
func Open(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open library: %s is not a directory", dir)
	}

	l := &Library{
		dir:     dir,
		parse:   Parse,
		entries: map[track.ID]entry{},
		scores:  map[track.ID]parsed{},
		parsing: map[track.ID]*sync.Mutex{},
	}
	if err := l.Rescan(); err != nil {
		return nil, err
	}
	return l, nil
}

// IDFor returns the stable id of a file relative to the library root
func IDFor(rel string) track.ID {
	return track.ID(uuid.NewSHA1(namespace, []byte(filepath.ToSlash(rel))).String())
}

func isMidi(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return true
	}
	return false
}

// Rescan rebuilds the catalog from disk. Names come from each file's track
// name when present, else from its file name.
func (l *Library) Rescan() error {
	found := map[track.ID]entry{}

	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMidi(path) {
			return nil
		}
		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		id := IDFor(rel)
		found[id] = entry{
			info:    track.Info{ID: id, Name: strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))},
			path:    path,
			modTime: fi.ModTime(),
			size:    fi.Size(),
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan library: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for id, e := range found {
		if p, ok := l.scores[id]; ok && p.revision != e.revision() {
			delete(l.scores, id)
		}
	}
	for id := range l.scores {
		if _, ok := found[id]; !ok {
			delete(l.scores, id)
		}
	}
	for id := range l.parsing {
		if _, ok := found[id]; !ok {
			delete(l.parsing, id)
		}
	}

	l.entries = found
	l.order = l.order[:0]
	for id := range found {
		l.order = append(l.order, id)
	}
	sort.Slice(l.order, func(i, j int) bool {
		return l.entries[l.order[i]].path < l.entries[l.order[j]].path
	})

	debug.Log("library", "scanned %s: %d tracks", l.dir, len(found))
	return nil
}

func (l *Library) lookup(id track.ID) (entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[id]
	if !ok {
		return entry{}, fmt.Errorf("track %s: %w", id, track.ErrNotFound)
	}
	return e, nil
}

func (l *Library) parseLock(id track.ID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.parsing[id]
	if !ok {
		m = &sync.Mutex{}
		l.parsing[id] = m
	}
	return m
}

// score parses a file once per revision. Concurrent loads of one track wait
// for a single parse.
func (l *Library) score(id track.ID) (*Score, error) {
	if _, err := l.lookup(id); err != nil {
		return nil, err
	}
	pl := l.parseLock(id)
	pl.Lock()
	defer pl.Unlock()

	e, err := l.lookup(id)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	p, ok := l.scores[id]
	l.mu.RUnlock()
	if ok && p.revision == e.revision() {
		return p.score, nil
	}

	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", id, err)
	}
	defer f.Close()

	s, err := l.parse(f)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", id, err)
	}

	l.mu.Lock()
	// a rescan may have dropped or replaced the file while it was parsed
	if cur, ok := l.entries[id]; ok && cur.revision() == e.revision() {
		l.scores[id] = parsed{revision: e.revision(), score: s}
	}
	l.mu.Unlock()
	return s, nil
}

func (l *Library) info(id track.ID) (track.Info, error) {
	e, err := l.lookup(id)
	if err != nil {
		return track.Info{}, err
	}
	info := e.info
	if s, err := l.score(id); err == nil && s.Name != "" {
		info.Name = s.Name
	}
	return info, nil
}

// ListTracks returns every track, ordered by path
func (l *Library) ListTracks(ctx context.Context) ([]track.Info, error) {
	l.mu.RLock()
	ids := append([]track.ID(nil), l.order...)
	l.mu.RUnlock()

	out := make([]track.Info, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := l.info(id)
		if err != nil {
			continue // removed since the snapshot
		}
		out = append(out, info)
	}
	return out, nil
}

func (l *Library) LoadChords(ctx context.Context, id track.ID) ([]track.RawChord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := l.score(id)
	if err != nil {
		return nil, err
	}
	return s.Chords, nil
}

func (l *Library) LoadNotes(ctx context.Context, id track.ID) ([]track.NoteEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := l.score(id)
	if err != nil {
		return nil, err
	}
	return s.Notes, nil
}

func (l *Library) LoadTrackInfo(ctx context.Context, id track.ID) (track.Info, error) {
	if err := ctx.Err(); err != nil {
		return track.Info{}, err
	}
	return l.info(id)
}

// Revision changes whenever the file behind id changes
func (l *Library) Revision(id track.ID) (string, error) {
	e, err := l.lookup(id)
	if err != nil {
		return "", err
	}
	return e.revision(), nil
}
