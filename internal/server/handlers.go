package server

import (
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sketchreveal/pkg/choreo"
	"github.com/matzehuels/sketchreveal/pkg/errors"
	"github.com/matzehuels/sketchreveal/pkg/llm"
	"github.com/matzehuels/sketchreveal/pkg/playback"
	"github.com/matzehuels/sketchreveal/pkg/render/sink"
	"github.com/matzehuels/sketchreveal/pkg/studio"
)

//go:embed static/index.html
var indexHTML []byte

const maxBody = 1 << 20

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.hub.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/demos", s.handleDemos)
		r.Post("/demos/{index}", s.handleLoadDemo)
		r.Post("/config", s.handleConfig)
		r.Post("/generate", s.handleGenerate)
		r.Post("/animate", s.handleAnimate)
		r.Post("/reset", s.handleReset)
		r.Get("/export.{format}", s.handleExport)
	})
	return r
}

// response is returned by every API call: the studio state after the
// action, plus the error text when it failed.
type response struct {
	State    studio.State `json:"state"`
	Error    string       `json:"error,omitempty"`
	Code     string       `json:"code,omitempty"`
	Timeline string       `json:"timeline,omitempty"`
}

type configRequest struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// animateRequest carries the page controls. Missing fields take the
// server defaults; SVG, when present, replaces the SVG input first.
type animateRequest struct {
	SVG      *string  `json:"svg"`
	Jitter   *float64 `json:"jitter"`
	Width    *float64 `json:"width"`
	Color    *string  `json:"color"`
	Duration *int64   `json:"duration"` // milliseconds
	Mode     *int     `json:"mode"`
}

func (a animateRequest) params(def playback.Params) playback.Params {
	p := def
	if a.Jitter != nil {
		p.Jitter = *a.Jitter
	}
	if a.Width != nil {
		p.Width = *a.Width
	}
	if a.Color != nil && *a.Color != "" {
		p.Color = *a.Color
	}
	if a.Duration != nil {
		p.Duration = time.Duration(*a.Duration) * time.Millisecond
	}
	if a.Mode != nil {
		p.Mode = choreo.Mode(*a.Mode)
	}
	return p
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.reply(w, nil, "")
}

func (s *Server) handleDemos(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.studio.Catalog())
}

func (s *Server) handleLoadDemo(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.reply(w, errors.New(errors.ErrCodeInvalidInput, "demo index %q is not a number", chi.URLParam(r, "index")), "")
		return
	}
	_, err = s.studio.LoadDemo(r.Context(), i)
	s.reply(w, err, "")
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := decode(w, r, &req); err != nil {
		s.reply(w, err, "")
		return
	}
	err := s.studio.Configure(r.Context(), llm.Provider{BaseURL: req.BaseURL, APIKey: req.APIKey, Model: req.Model})
	s.reply(w, err, "")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(w, r, &req); err != nil {
		s.reply(w, err, "")
		return
	}
	if req.Model != "" {
		s.studio.SelectModel(req.Model)
	}
	s.studio.SetPrompt(req.Prompt)
	s.reply(w, s.studio.Generate(r.Context()), "")
}

func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	var req animateRequest
	if err := decode(w, r, &req); err != nil {
		s.reply(w, err, "")
		return
	}
	if req.SVG != nil {
		s.studio.SetSVG(*req.SVG)
	}
	tl, err := s.studio.Animate(r.Context(), req.params(s.defaults))
	id := ""
	if tl != nil {
		id = tl.ID()
	}
	s.reply(w, err, id)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.studio.Reset(r.Context())
	s.reply(w, nil, "")
}

// handleExport renders the current scene: svg replays the animation,
// png is the current frame, pdf and json as their sinks produce them.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sc := s.studio.Scene()
	if sc == nil {
		http.Error(w, "nothing animated yet", http.StatusNotFound)
		return
	}
	var instrs []choreo.Instruction
	s.mu.Lock()
	if s.current != nil {
		instrs = s.current.Instructions()
	}
	s.mu.Unlock()

	var (
		data        []byte
		err         error
		contentType string
	)
	switch strings.ToLower(chi.URLParam(r, "format")) {
	case "svg":
		data, contentType = sink.RenderSVG(sc, instrs, sink.WithBackground("#ffffff")), "image/svg+xml"
	case "png":
		data, err = sink.RenderPNG(sc)
		contentType = "image/png"
	case "pdf":
		data, err = sink.RenderPDF(sc)
		contentType = "application/pdf"
	case "json":
		data, err = sink.RenderJSON(sc, instrs)
		contentType = "application/json"
	default:
		http.Error(w, "unknown format", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, errors.UserMessage(err), statusOf(err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) reply(w http.ResponseWriter, err error, timelineID string) {
	resp := response{State: s.studio.State(), Timeline: timelineID}
	status := http.StatusOK
	if err != nil {
		resp.Error = errors.UserMessage(err)
		resp.Code = string(errors.GetCode(err))
		status = statusOf(err)
	}
	writeJSON(w, status, resp)
}

// statusOf maps the error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	if stderrors.Is(err, studio.ErrBusy) {
		return http.StatusConflict
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeEmptyInput, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeConfiguration:
		return http.StatusPreconditionFailed
	case errors.ErrCodeNetwork, errors.ErrCodeContent:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
