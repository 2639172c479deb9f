// Package trackserver serves a track catalog over HTTP.
//
//	GET /api/tracks/                list of {id,name}
//	GET /api/tracks/{id}/           {id,name}
//	GET /api/tracks/{id}/chords/    [{notes,time}]
//	GET /api/tracks/{id}/notes/     [{note,time,duration,velocity}]
//	GET /healthz
package trackserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"go-practice/library"
	"go-practice/track"
)

// Catalog is what the server needs from a track source
type Catalog interface {
	ListTracks(ctx context.Context) ([]track.Info, error)
	LoadChords(ctx context.Context, id track.ID) ([]track.RawChord, error)
	LoadNotes(ctx context.Context, id track.ID) ([]track.NoteEvent, error)
	LoadTrackInfo(ctx context.Context, id track.ID) (track.Info, error)
	Revision(id track.ID) (string, error)
}

type Server struct {
	catalog Catalog
	cache   Cache
	log     *zap.Logger
	router  *mux.Router
}

// New builds a server. cache and log may be nil.
func New(catalog Catalog, cache Cache, log *zap.Logger) *Server {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{catalog: catalog, cache: cache, log: log}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/tracks").Subrouter()
	api.HandleFunc("/", s.listTracks).Methods(http.MethodGet)
	api.HandleFunc("/{id}/", s.part("info", s.info)).Methods(http.MethodGet)
	api.HandleFunc("/{id}/chords/", s.part("chords", s.chords)).Methods(http.MethodGet)
	api.HandleFunc("/{id}/notes/", s.part("notes", s.notes)).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	s.router = r
	return s
}

// Handler returns the routes wrapped for cross-origin browser access
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler(s.router)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("track server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down track server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) listTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.ListTracks(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if tracks == nil {
		tracks = []track.Info{}
	}
	writeJSON(w, tracks)
}

func (s *Server) info(ctx context.Context, id track.ID) (any, error) {
	return s.catalog.LoadTrackInfo(ctx, id)
}

func (s *Server) chords(ctx context.Context, id track.ID) (any, error) {
	chords, err := s.catalog.LoadChords(ctx, id)
	if chords == nil {
		chords = []track.RawChord{}
	}
	return chords, err
}

func (s *Server) notes(ctx context.Context, id track.ID) (any, error) {
	notes, err := s.catalog.LoadNotes(ctx, id)
	if notes == nil {
		notes = []track.NoteEvent{}
	}
	return notes, err
}

// CacheKey is the cache key for one part of one revision of a track
func CacheKey(id track.ID, revision, part string) string {
	return fmt.Sprintf("track:%s:%s:%s", id, revision, part)
}

// part serves one per-track resource through the cache
func (s *Server) part(name string, load func(context.Context, track.ID) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := track.ID(mux.Vars(r)["id"])

		rev, err := s.catalog.Revision(id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		key := CacheKey(id, rev, name)

		if body, ok, err := s.cache.Get(ctx, key); err != nil {
			s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			w.Header().Set("X-Cache", "hit")
			writeRaw(w, body)
			return
		}

		v, err := load(ctx, id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		body, err := json.Marshal(v)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if err := s.cache.Set(ctx, key, body); err != nil {
			s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		}
		w.Header().Set("X-Cache", "miss")
		writeRaw(w, body)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, track.ErrNotFound):
		writeError(w, http.StatusNotFound, "track not found")
	case errors.Is(err, library.ErrUnreadable):
		s.log.Warn("unreadable track", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, "unreadable midi")
	default:
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeRaw(w, body)
}

func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}
