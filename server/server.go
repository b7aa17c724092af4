package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/opd-ai/spinplay/limits"
	"github.com/opd-ai/spinplay/opf"
	"github.com/opd-ai/spinplay/playlist"
	"github.com/opd-ai/spinplay/texture"
	"github.com/sirupsen/logrus"
)

// Config tunes a Server.
type Config struct {
	// Timeout bounds each request.
	Timeout time.Duration

	// Loader config for the UV map inspection cache.
	Loader *texture.LoaderConfig
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Loader:  texture.DefaultLoaderConfig(),
	}
}

// Server serves OPF documents, playlists and remap textures out of a file
// system, plus JSON views of what the SDK makes of them.
type Server struct {
	root   fs.FS
	cfg    *Config
	loader *texture.Loader
	router chi.Router
}

// New builds a server rooted at root. A nil cfg uses DefaultConfig.
func New(root fs.FS, cfg *Config) (*Server, error) {
	if root == nil {
		return nil, ErrNoRoot
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		root:   root,
		cfg:    cfg,
		loader: texture.NewLoader(&texture.FileFetcher{FS: root}, nil, cfg.Loader),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))
	s.RegisterRoutes(r)
	s.router = r
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Loader returns the UV map cache behind /uvmap.
func (s *Server) Loader() *texture.Loader { return s.loader }

// RegisterRoutes adds the server's routes to r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.healthz)
	r.Get("/opf/*", s.document)
	r.Get("/inspect/*", s.inspect)
	r.Get("/playlist/*", s.playlist)
	r.Get("/uvmap/*", s.uvmap)
	r.Get("/stats", s.stats)
	r.Mount("/files", http.StripPrefix("/files", http.FileServer(http.FS(s.root))))
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      s.cfg.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	logrus.WithFields(logrus.Fields{
		"function": "Server.ListenAndServe",
		"addr":     addr,
	}).Info("Asset server listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// assetPath extracts the cleaned wildcard path of r.
func assetPath(r *http.Request) (string, error) {
	p := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if p == "" {
		return "", ErrBadPath
	}
	clean := path.Clean(p)
	if !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %q", ErrBadPath, p)
	}
	return clean, nil
}

// read loads an asset and checks it against validate.
func (s *Server) read(w http.ResponseWriter, r *http.Request, validate func([]byte) error) (string, []byte, bool) {
	name, err := assetPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return "", nil, false
	}
	data, err := fs.ReadFile(s.root, name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return "", nil, false
	}
	if err := validate(data); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return "", nil, false
	}
	return name, data, true
}

func (s *Server) document(w http.ResponseWriter, r *http.Request) {
	_, data, ok := s.read(w, r, limits.ValidateOPFDocument)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) inspect(w http.ResponseWriter, r *http.Request) {
	name, data, ok := s.read(w, r, limits.ValidateOPFDocument)
	if !ok {
		return
	}
	proj, err := opf.Parse(data, baseURL(r, "/files/"+name))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, proj.Summarize())
}

type playlistItemJSON struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	AutoPlay bool   `json:"autoPlay"`
	Loop     bool   `json:"loop"`
}

type playlistJSON struct {
	WrapAround bool               `json:"wrapAround"`
	PlayNext   bool               `json:"playNext"`
	Items      []playlistItemJSON `json:"items"`
}

func (s *Server) playlist(w http.ResponseWriter, r *http.Request) {
	name, data, ok := s.read(w, r, limits.ValidatePlaylistDocument)
	if !ok {
		return
	}
	p, err := playlist.Parse(data, baseURL(r, "/files/"+name))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	out := playlistJSON{WrapAround: p.WrapAround, PlayNext: p.PlayNext, Items: []playlistItemJSON{}}
	for _, it := range p.Items {
		out.Items = append(out.Items, playlistItemJSON{Title: it.Title, URL: it.URL, AutoPlay: it.AutoPlay, Loop: it.Loop})
	}
	writeJSON(w, http.StatusOK, out)
}

type uvMapJSON struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Digest string `json:"digest"`
}

func (s *Server) uvmap(w http.ResponseWriter, r *http.Request) {
	name, err := assetPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.loader.Get(r.Context(), name)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, uvMapJSON{Width: m.Width, Height: m.Height, Digest: hex.EncodeToString(m.Digest[:])})
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.loader.Stats())
}

// baseURL makes the served location of an asset absolute so relative
// references in it resolve against this server.
func baseURL(r *http.Request, p string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + p
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "writeJSON",
			"error":    err.Error(),
		}).Warn("Failed to encode response")
	}
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorJSON{Error: err.Error()})
}
