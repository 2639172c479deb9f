package trackserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-practice/library"
	"go-practice/track"
)

type fakeCatalog struct {
	mu    sync.Mutex
	loads int
	rev   string
}

func (c *fakeCatalog) ListTracks(ctx context.Context) ([]track.Info, error) {
	return []track.Info{{ID: "ode", Name: "Ode"}, {ID: "broken", Name: "broken"}}, nil
}

func (c *fakeCatalog) known(id track.ID) error {
	switch id {
	case "ode":
		return nil
	case "broken":
		return fmt.Errorf("parse: %w", library.ErrUnreadable)
	case "boom":
		return errors.New("disk on fire")
	}
	return track.ErrNotFound
}

func (c *fakeCatalog) LoadChords(ctx context.Context, id track.ID) ([]track.RawChord, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	if err := c.known(id); err != nil {
		return nil, err
	}
	return []track.RawChord{track.NewRawChord(0, 60, 64), track.NewRawChord(0.5, 67)}, nil
}

func (c *fakeCatalog) LoadNotes(ctx context.Context, id track.ID) ([]track.NoteEvent, error) {
	if err := c.known(id); err != nil {
		return nil, err
	}
	return nil, nil
}

func (c *fakeCatalog) LoadTrackInfo(ctx context.Context, id track.ID) (track.Info, error) {
	if err := c.known(id); err != nil && !errors.Is(err, library.ErrUnreadable) {
		return track.Info{}, err
	}
	return track.Info{ID: id, Name: string(id)}, nil
}

func (c *fakeCatalog) Revision(id track.ID) (string, error) {
	if id != "ode" && id != "broken" && id != "boom" {
		return "", track.ErrNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rev, nil
}

type memCache struct {
	mu   sync.Mutex
	vals map[string][]byte
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = val
	return nil
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	h := New(&fakeCatalog{rev: "1"}, nil, nil).Handler()

	rec := get(t, h, "/api/tracks/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":"ode","name":"Ode"},{"id":"broken","name":"broken"}]`, rec.Body.String())

	rec = get(t, h, "/api/tracks/ode/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"ode","name":"ode"}`, rec.Body.String())

	rec = get(t, h, "/api/tracks/ode/chords/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"notes":[60,64],"time":0},{"notes":[67],"time":0.5}]`, rec.Body.String())

	rec = get(t, h, "/api/tracks/ode/notes/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestErrors(t *testing.T) {
	h := New(&fakeCatalog{rev: "1"}, nil, nil).Handler()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/tracks/nope/").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/tracks/nope/chords/").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(t, h, "/api/tracks/broken/chords/").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, h, "/api/tracks/boom/notes/").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/elsewhere").Code)
}

func TestCacheFollowsRevision(t *testing.T) {
	cat := &fakeCatalog{rev: "1"}
	cache := &memCache{vals: map[string][]byte{}}
	h := New(cat, cache, nil).Handler()

	rec := get(t, h, "/api/tracks/ode/chords/")
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	rec = get(t, h, "/api/tracks/ode/chords/")
	assert.Equal(t, "hit", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, cat.loads)
	assert.Contains(t, cache.vals, CacheKey("ode", "1", "chords"))

	cat.mu.Lock()
	cat.rev = "2"
	cat.mu.Unlock()

	rec = get(t, h, "/api/tracks/ode/chords/")
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, cat.loads)
}

func TestErrorsAreNotCached(t *testing.T) {
	cache := &memCache{vals: map[string][]byte{}}
	h := New(&fakeCatalog{rev: "1"}, cache, nil).Handler()

	get(t, h, "/api/tracks/broken/chords/")
	assert.Empty(t, cache.vals)
}

func TestCORS(t *testing.T) {
	h := New(&fakeCatalog{rev: "1"}, nil, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/tracks/", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServeStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(&fakeCatalog{}, nil, nil).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChordsDecodeOnClientSide(t *testing.T) {
	h := New(&fakeCatalog{rev: "1"}, nil, nil).Handler()
	var chords []track.RawChord
	require.NoError(t, json.Unmarshal(get(t, h, "/api/tracks/ode/chords/").Body.Bytes(), &chords))

	seq, err := track.MapChords(chords, func(c uint8) string { return fmt.Sprint(c) })
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"60", "64"}, {"67"}}, seq.Chords)
}
