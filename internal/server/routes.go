package server

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/backdrop/pkg/backdrop"
	"github.com/matzehuels/backdrop/pkg/buildinfo"
	"github.com/matzehuels/backdrop/pkg/cache"
	berrors "github.com/matzehuels/backdrop/pkg/errors"
	"github.com/matzehuels/backdrop/pkg/render"
	"github.com/matzehuels/backdrop/pkg/svgpath"
)

// Paths served by the router.
const (
	PathStylesheet = "/assets/backdrop.css"
	PathSocket     = "/ws"
)

// Viewport defaults and limits for query parameters.
const (
	defaultWidth  = 1280
	defaultHeight = 720
	maxDimension  = 16384
)

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handlePage)
	r.Get(PathStylesheet, s.handleStylesheet)
	r.Get(PathSocket, s.handleSocket)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shapes", s.handleShapes)
		r.Get("/snapshot.svg", s.handleSnapshot)
	})

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := render.Page(w, render.PageData{
		Title:          s.Title,
		ContainerID:    s.Config.ContainerID,
		StylesheetPath: PathStylesheet,
		SocketPath:     PathSocket,
	})
	if err != nil {
		s.Logger.Error("render page", "err", err)
	}
}

func (s *Server) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(render.Stylesheet(s.Config.ContainerID)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.Sessions(),
	})
}

type shapeInfo struct {
	Name   string  `json:"name"`
	Path   string  `json:"path"`
	Length float64 `json:"length"`
}

func (s *Server) handleShapes(w http.ResponseWriter, r *http.Request) {
	out := make([]shapeInfo, 0, len(s.Library))
	for _, sh := range s.Library {
		length, err := svgpath.Length(sh.Path)
		if err != nil {
			length = render.DefaultDashLength
		}
		out = append(out, shapeInfo{Name: sh.Name, Path: sh.Path, Length: length})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "width", defaultWidth, 1, maxDimension)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := queryInt(r, "height", defaultHeight, 1, maxDimension)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	count, err := queryInt(r, "count", s.Config.MaxElements, 1, backdrop.MaxBatch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var static bool
	if v := r.URL.Query().Get("static"); v != "" {
		static, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, berrors.New(berrors.ErrCodeInvalidInput, "static must be a boolean"))
			return
		}
	}
	var renderOpts []render.SnapshotOption
	if static {
		renderOpts = append(renderOpts, render.WithStatic())
	}
	background := r.URL.Query().Get("background")
	if background != "" {
		if err := berrors.ValidateAttributeValue(background); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		renderOpts = append(renderOpts, render.WithBackground(background))
	}

	opts := []backdrop.Option{backdrop.WithLogger(s.Logger)}
	var key string
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, berrors.New(berrors.ErrCodeInvalidInput, "seed must be an unsigned integer"))
			return
		}
		opts = append(opts, backdrop.WithRand(rand.New(rand.NewPCG(seed, seed))))
		key = cache.Key("snapshot", s.Config, width, height, count, seed, static, background)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if key != "" && s.Cache != nil {
		if data, ok, _ := s.Cache.Get(r.Context(), key); ok {
			w.Header().Set("X-Cache", "hit")
			_, _ = w.Write(data)
			return
		}
		w.Header().Set("X-Cache", "miss")
	}

	elems, err := backdrop.Batch(s.Config, s.Library, float64(width), float64(height), count, opts...)
	if err != nil {
		w.Header().Del("X-Cache")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	data := render.Snapshot(backdrop.Items(elems), width, height, renderOpts...)

	if key != "" && s.Cache != nil {
		if err := s.Cache.Set(r.Context(), key, data, snapshotTTL); err != nil {
			s.Logger.Warn("cache snapshot", "err", err)
		}
	}
	_, _ = w.Write(data)
}

// checkOrigin accepts same-origin requests, requests without an Origin
// header and origins listed in AllowedOrigins ("*" allows any).
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin) {
			return true
		}
	}
	s.Logger.Debug("websocket origin rejected", "origin", origin)
	return false
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "width", defaultWidth, 1, maxDimension)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	height, err := queryInt(r, "height", defaultHeight, 1, maxDimension)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	sess := newSession(conn, s.Config.ContainerID, float64(width), float64(height), s.Logger)
	if !s.track(sess) {
		sess.close()
		return
	}
	defer s.untrack(sess)

	sp, err := backdrop.New(s.Config, s.Library, sess, backdrop.WithLogger(sess.logger))
	if err != nil {
		s.Logger.Error("create spawner", "err", err)
		sess.close()
		return
	}
	sess.run(r.Context(), sp)
}

// queryInt reads an optional integer parameter within [lo, hi].
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, berrors.New(berrors.ErrCodeInvalidInput, "%s must be an integer in [%d, %d]", name, lo, hi)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": berrors.UserMessage(err),
		"code":  string(berrors.GetCode(err)),
	})
}
