package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/digimosa/dsp-scorecard/internal/config"
	"github.com/digimosa/dsp-scorecard/internal/extractor"
	"github.com/digimosa/dsp-scorecard/internal/kpi"
	"github.com/digimosa/dsp-scorecard/internal/models"
	"github.com/digimosa/dsp-scorecard/internal/reporting"
	"github.com/digimosa/dsp-scorecard/internal/scorecard"
	"github.com/digimosa/dsp-scorecard/internal/storage"
	"github.com/digimosa/dsp-scorecard/internal/templates"
)

// maxUpload caps the multipart body of a scorecard upload.
const maxUpload = 64 << 20

// TargetWriter persists a target override.
type TargetWriter interface {
	Add(o models.TargetOverride) error
}

// Loader decodes an uploaded file into a page source.
type Loader func(name string, data []byte) (extractor.PageSource, error)

// Server exposes scorecard upload, stored results and target overrides.
type Server struct {
	cfg    *config.Config
	store  *storage.Store
	engine *scorecard.Engine

	// targets feeds extraction; it normally chains a targets file with the
	// store so overrides added over HTTP apply to the next upload.
	targets kpi.TargetRepository

	dashboard *template.Template

	// TargetFile, when set, receives overrides posted to /api/targets
	// instead of the store. It must also feed targets.
	TargetFile TargetWriter

	// Load defaults to extractor.Load.
	Load Loader
}

func NewServer(cfg *config.Config, store *storage.Store, targets kpi.TargetRepository) *Server {
	if targets == nil {
		targets = store
	}
	return &Server{
		cfg:       cfg,
		store:     store,
		engine:    scorecard.New(),
		targets:   targets,
		dashboard: template.Must(template.New("dashboard").Parse(templates.DashboardHTML)),
		Load: func(name string, data []byte) (extractor.PageSource, error) {
			return extractor.Load(name, data)
		},
	}
}

// Router returns the HTTP handler with middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.cfg.Verbose {
		r.Use(middleware.Logger)
	}
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	s.Attach(r)
	return r
}

func (s *Server) Attach(r chi.Router) {
	r.Get("/", s.handleDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scorecards", s.handleUpload)
		r.Get("/scorecards", s.handleList)
		r.Get("/scorecards/{id}", s.handleGet)
		r.Get("/scorecards/{id}/report", s.handleReport)

		r.Get("/targets", s.handleTargets)
		r.Post("/targets", s.handleAddTarget)
	})
}

func (s *Server) Start(addr string) error {
	log.Printf("[SERVER] listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListScorecards()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.dashboard.Execute(w, list); err != nil {
		log.Printf("[SERVER] render dashboard: %v", err)
	}
}

type uploadResponse struct {
	ID        string                `json:"id"`
	Scorecard *models.ScoreCardData `json:"scorecard"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	name := filepath.Base(header.Filename)

	doc, err := s.Load(name, data)
	if err != nil {
		writeError(w, loadStatus(err), err)
		return
	}

	sc, err := s.engine.Extract(r.Context(), doc, scorecard.Options{
		Filename:     name,
		Verbose:      s.cfg.Verbose,
		Targets:      s.targets,
		CompanyPages: s.cfg.CompanyPages,
	})
	if err != nil {
		writeError(w, http.StatusRequestTimeout, err)
		return
	}

	m, err := s.store.SaveScorecard(name, sc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.cfg.Verbose {
		log.Printf("[SERVER] stored %s as %s (%d drivers)", name, m.ID, len(sc.DriverKPIs))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJson(w, uploadResponse{ID: m.ID, Scorecard: sc})
}

// loadStatus maps a loading-boundary error to an HTTP status.
func loadStatus(err error) int {
	switch {
	case errors.Is(err, extractor.ErrPasswordProtected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extractor.ErrEmptyDocument), errors.Is(err, extractor.ErrInvalidPDF):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListScorecards()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []storage.ScorecardModel{}
	}
	writeJson(w, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	_, sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJson(w, sc)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	m, sc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	report := reporting.ForScorecard(m.Filename, sc)

	var err error
	switch r.URL.Query().Get("format") {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		err = report.WriteJSON(w)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.ID+".xlsx"))
		err = report.WriteXLSX(w)
	case "", "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = report.RenderHTML(w)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown report format %q", r.URL.Query().Get("format")))
		return
	}
	if err != nil {
		log.Printf("[SERVER] render report %s: %v", m.ID, err)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*storage.ScorecardModel, *models.ScoreCardData, bool) {
	id := chi.URLParam(r, "id")

	m, sc, err := s.store.GetScorecard(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return nil, nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	return m, sc, true
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	list, err := s.targets.TargetOverrides()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []models.TargetOverride{}
	}
	writeJson(w, list)
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var o models.TargetOverride
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if o.KPIName == "" {
		writeError(w, http.StatusBadRequest, errors.New("kpiName is required"))
		return
	}
	if o.EffectiveWeek != nil && (*o.EffectiveWeek < 1 || *o.EffectiveWeek > 53) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid week %d", *o.EffectiveWeek))
		return
	}

	add := s.store.AddTarget
	if s.TargetFile != nil {
		add = s.TargetFile.Add
	}
	if err := add(o); err != nil {
		log.Printf("[ERROR] failed to add target override: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	log.Printf("[TARGETS] added via API: %s = %g", o.KPIName, o.Value)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJson(w, o)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}
