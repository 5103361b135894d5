package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"numbertrail/server/persistence"
	"numbertrail/server/services"
)

// RESTHandler serves the read-only level catalog and a health probe
type RESTHandler struct {
	levels   *services.LevelService
	sessions *services.SessionService
	clients  *ClientManager
	log      zerolog.Logger
}

func NewRESTHandler(levels *services.LevelService, sessions *services.SessionService, clients *ClientManager, log zerolog.Logger) *RESTHandler {
	return &RESTHandler{levels: levels, sessions: sessions, clients: clients, log: log}
}

// NewRouter mounts the websocket endpoint and the REST API
func NewRouter(rest *RESTHandler, ws *WSHandler, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger(log))
	r.Handle("/ws", ws).Methods(http.MethodGet)
	r.HandleFunc("/api/levels", rest.handleListLevels).Methods(http.MethodGet)
	r.HandleFunc("/api/levels/{name}", rest.handleGetLevel).Methods(http.MethodGet)
	r.HandleFunc("/healthz", rest.handleHealth).Methods(http.MethodGet)
	return r
}

type errorResp struct {
	Error string `json:"error"`
}

type listResp struct {
	Levels []persistence.LevelMeta `json:"levels"`
}

type healthResp struct {
	Status   string `json:"status"`
	Clients  int    `json:"clients"`
	Sessions int    `json:"sessions"`
}

func (h *RESTHandler) handleListLevels(w http.ResponseWriter, r *http.Request) {
	metas, err := h.levels.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list levels")
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: "failed to list levels"})
		return
	}
	if metas == nil {
		metas = []persistence.LevelMeta{}
	}
	writeJSON(w, http.StatusOK, listResp{Levels: metas})
}

func (h *RESTHandler) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	cfg, err := h.levels.Config(r.Context(), name)
	if err != nil {
		if errors.Is(err, persistence.ErrLevelNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp{Error: err.Error()})
			return
		}
		h.log.Error().Err(err).Str("level", name).Msg("get level")
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: "failed to load level"})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *RESTHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{
		Status:   "ok",
		Clients:  h.clients.Count(),
		Sessions: h.sessions.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusWriter captures the response status and size
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogger logs every plain HTTP request. statusWriter does not
// implement http.Hijacker, so websocket upgrades pass through untouched.
func requestLogger(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if websocket.IsWebSocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("dur", time.Since(start)).
				Msg("http")
		})
	}
}
