package dashboard

import (
	"bytes"
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/render"
	"github.com/nao1215/gdpdash/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

// shutdownTimeout bounds graceful shutdown of ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Server serves a Controller over HTTP.
type Server struct {
	ctrl      *Controller
	router    *chi.Mux
	templates *template.Template
	logger    *slog.Logger
	token     string
	size      render.Size
	version   string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithToken requires every request except the health check to carry token,
// either as "Authorization: Bearer <token>" or as a token query parameter.
func WithToken(token string) ServerOption {
	return func(s *Server) {
		s.token = token
	}
}

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithChartSize sets the size of served chart images.
func WithChartSize(size render.Size) ServerOption {
	return func(s *Server) {
		s.size = size
	}
}

// WithVersion sets the version shown in the page footer.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates a Server for ctrl.
func NewServer(ctrl *Controller, opts ...ServerOption) (*Server, error) {
	s := &Server{
		ctrl:   ctrl,
		router: chi.NewRouter(),
		size:   render.DefaultSize(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	funcMap := template.FuncMap{
		"num": report.FormatNumber,
		"inc": func(i int) int { return i + 1 },
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler of the dashboard.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("dashboard listening", "addr", addr, "token", s.token)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.requireToken)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleSummary)
	s.router.Get("/summary", s.handleSummary)
	s.router.Get("/region", s.handleRegion)
	s.router.Get("/year", s.handleYear)
	s.router.Get("/report", s.handleReport)
	s.router.Get("/charts/{file}", s.handleChart)
	s.router.Get("/api/state", s.handleState)
	s.router.Get("/healthz", s.handleHealth)
}

// logRequests logs one line per request. Query strings are left out since
// they may carry the access token.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.URL.Query().Get("token")
		if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
			got = bearer
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var err error
	if q.Has("country") {
		err = s.ctrl.SelectCountry(r.Context(), q.Get("country"))
	}
	s.showTab(w, r, TabSummary, err)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var err error
	if q.Has("region") {
		err = s.ctrl.SelectRegion(r.Context(), q.Get("region"))
	}
	s.showTab(w, r, TabRegion, err)
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var err error
	if q.Has("year") {
		err = s.ctrl.SelectYear(r.Context(), q.Get("year"))
	}
	if err == nil && q.Has("mode") {
		err = s.ctrl.SetMode(r.Context(), Mode(q.Get("mode")))
	}
	s.showTab(w, r, TabYear, err)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.showTab(w, r, TabReport, nil)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}
	chart, ok := s.ctrl.Chart(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	img, err := render.Draw(chart.Kind, chart.Series, s.size)
	if errors.Is(err, render.ErrNoData) {
		http.Error(w, "no data for chart "+name, http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("chart rendering failed", "chart", name, "error", err)
		http.Error(w, "chart rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(img); err != nil {
		s.logger.Debug("failed to write chart", "chart", name, "error", err)
	}
}

// stateResponse is the body of /api/state.
type stateResponse struct {
	State   State   `json:"state"`
	Choices Choices `json:"choices"`
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stateResponse{State: s.ctrl.State(), Choices: s.ctrl.Choices()}); err != nil {
		s.logger.Debug("failed to write state", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// showTab selects tab and renders it. eventErr is the error of the event
// the request carried; the page is still rendered with the previous
// selection and the error shown.
func (s *Server) showTab(w http.ResponseWriter, r *http.Request, tab Tab, eventErr error) {
	if err := s.ctrl.SelectTab(tab); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	data := s.newPageData(r, tab)
	if eventErr != nil {
		status = eventStatus(eventErr)
		data.Error = eventErr.Error()
	}
	if tab == TabReport {
		html, err := s.reportHTML()
		if err != nil {
			s.logger.Error("report rendering failed", "error", err)
			http.Error(w, "report rendering failed", http.StatusInternalServerError)
			return
		}
		data.ReportHTML = html
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("template error", "tab", tab, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// eventStatus maps an event error to an HTTP status.
func eventStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound),
		errors.Is(err, ErrInvalidMode),
		errors.Is(err, ErrInvalidTab):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrParse), errors.Is(err, model.ErrSchema):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// reportHTML renders the Markdown report of the current view as HTML.
func (s *Server) reportHTML() (template.HTML, error) {
	var md bytes.Buffer
	if _, err := report.NewMarkdownWriter(&md).Write(s.ctrl.Report()); err != nil {
		return "", err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML,
	})
	out := markdown.Render(p.Parse(md.Bytes()), renderer)
	return template.HTML(out), nil //nolint:gosec // generated from escaped Markdown with raw HTML skipped
}

// tabLink is a navigation entry.
type tabLink struct {
	Name   string
	Label  string
	URL    string
	Active bool
}

// pageData is the template input.
type pageData struct {
	Title      string
	Tab        string
	Tabs       []tabLink
	Modes      []tabLink
	State      State
	Choices    Choices
	Charts     map[string]string
	ReportHTML template.HTML
	Error      string
	Version    string
	Token      string
}

// RegionLabel returns the selected region, "All" when unset.
func (p pageData) RegionLabel() string {
	return model.RunConfig{Region: p.State.Region}.RegionLabel()
}

func (s *Server) newPageData(r *http.Request, tab Tab) pageData {
	token := ""
	if s.token != "" {
		token = r.URL.Query().Get("token")
	}
	link := func(path string, params url.Values) string {
		if token != "" {
			if params == nil {
				params = url.Values{}
			}
			params.Set("token", token)
		}
		if len(params) == 0 {
			return path
		}
		return path + "?" + params.Encode()
	}

	state := s.ctrl.State()
	data := pageData{
		Title:   "GDP Analytics Dashboard",
		Tab:     string(tab),
		State:   state,
		Choices: s.ctrl.Choices(),
		Charts:  make(map[string]string, len(state.Charts)),
		Version: s.version,
		Token:   token,
	}
	for _, t := range Tabs() {
		data.Tabs = append(data.Tabs, tabLink{
			Name:   string(t),
			Label:  strings.ToUpper(string(t[:1])) + string(t[1:]),
			URL:    link("/"+string(t), nil),
			Active: t == tab,
		})
	}
	for _, m := range []Mode{ModeBar, ModePie} {
		data.Modes = append(data.Modes, tabLink{
			Name:   string(m),
			Label:  strings.ToUpper(string(m[:1])) + string(m[1:]),
			URL:    link("/year", url.Values{"mode": {string(m)}}),
			Active: m == state.Mode,
		})
	}
	for _, name := range state.Charts {
		data.Charts[name] = link("/charts/"+name+".png", url.Values{"v": {strconv.Itoa(state.Generation)}})
	}
	return data
}
