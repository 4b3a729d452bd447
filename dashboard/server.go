package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"bikeshare-dashboard/models"
	"bikeshare-dashboard/services"
	"bikeshare-dashboard/utils"
)

// Runner is the pipeline the server drives on every request.
type Runner interface {
	Run(ctx context.Context, req services.Request) (*services.Result, error)
	Preview(ctx context.Context, seasons []models.Season) (*services.Result, error)
}

// Capturer renders chart HTML to PNG.
type Capturer interface {
	Capture(ctx context.Context, page []byte) ([]byte, error)
}

type viewKey struct{}

// Server is the dashboard's HTTP shell.
type Server struct {
	runner     Runner
	snapshots  Capturer
	assetsHost string
	logger     *utils.Logger
}

// NewServer creates a Server. snapshots may be nil to disable PNG export.
func NewServer(runner Runner, snapshots Capturer, assetsHost string, logger *utils.Logger) *Server {
	return &Server{runner: runner, snapshots: snapshots, assetsHost: assetsHost, logger: logger}
}

// Routes returns the dashboard routes.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/views/"+string(models.ViewSeasonal), http.StatusFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/views/{view}", func(r chi.Router) {
		r.Use(s.ViewCtx)
		r.Get("/", s.handlePage)
		r.Get("/chart", s.handleChart)
		r.Get("/chart.png", s.handleSnapshot)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/preview", s.handlePreview)
		r.With(s.ViewCtx).Get("/views/{view}", s.handleAPIView)
	})

	return r
}

// ViewCtx resolves the {view} URL parameter.
func (s *Server) ViewCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "view")
		view, err := models.ParseView(raw)
		if err != nil {
			_ = render.Render(w, r, errViewNotFound(raw))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), viewKey{}, view)))
	})
}

func viewFrom(r *http.Request) models.View {
	v, _ := r.Context().Value(viewKey{}).(models.View)
	return v
}

// parseSeasons accepts ?season=1&season=3 as well as ?season=1,3.
func parseSeasons(r *http.Request) ([]models.Season, error) {
	return models.ParseSeasons(r.URL.Query()["season"]...)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request) (*services.Result, bool) {
	seasons, err := parseSeasons(r)
	if err != nil {
		_ = render.Render(w, r, errInvalidParameter(err.Error()))
		return nil, false
	}
	res, err := s.runner.Run(r.Context(), services.Request{View: viewFrom(r), Seasons: seasons})
	if err != nil {
		_ = render.Render(w, r, errDatasetUnavailable(err))
		return nil, false
	}
	return res, true
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view := viewFrom(r)
	seasons, err := parseSeasons(r)
	if err != nil {
		_ = render.Render(w, r, errInvalidParameter(err.Error()))
		return
	}

	res, err := s.runner.Run(r.Context(), services.Request{View: view, Seasons: seasons})
	d := newPageData(view, r.URL.Query(), res, s.snapshots != nil)
	status := http.StatusOK
	if err != nil {
		d.Fatal = err.Error()
		status = http.StatusInternalServerError
	}

	var buf bytes.Buffer
	if err := renderPage(&buf, d); err != nil {
		s.logger.Error("[http] render page: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) chartHTML(res *services.Result) ([]byte, error) {
	var buf bytes.Buffer
	subtitle := fmt.Sprintf("%d rows, seasons: %s", res.Rows, seasonNames(res.Selected))
	if err := RenderChart(&buf, BuildChart(res.Summary), s.assetsHost, subtitle); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	if res.ViewErr != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprintf(w, `<p class="error">%s</p>`, html.EscapeString(res.ViewErr.Error()))
		return
	}

	page, err := s.chartHTML(res)
	if err != nil {
		s.logger.Error("[http] %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		_ = render.Render(w, r, errSnapshotsDisabled())
		return
	}
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	if res.ViewErr != nil {
		_ = render.Render(w, r, missingColumns(res.ViewErr))
		return
	}

	page, err := s.chartHTML(res)
	if err == nil {
		var png []byte
		png, err = s.snapshots.Capture(r.Context(), page)
		if err == nil {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
			return
		}
	}
	s.logger.Error("[http] snapshot %s: %v", viewFrom(r), err)
	http.Error(w, "snapshot failed", http.StatusInternalServerError)
}

type viewResponse struct {
	View          models.View      `json:"view"`
	Source        string           `json:"source"`
	MetricColumn  string           `json:"metric_column"`
	Rows          int              `json:"rows"`
	SeasonOptions []models.Season  `json:"season_options"`
	Selected      []models.Season  `json:"selected"`
	Summary       *models.Summary  `json:"summary"`
	Chart         models.ChartSpec `json:"chart"`
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	if res.ViewErr != nil {
		_ = render.Render(w, r, missingColumns(res.ViewErr))
		return
	}
	render.JSON(w, r, viewResponse{
		View:          viewFrom(r),
		Source:        res.Source,
		MetricColumn:  res.MetricColumn,
		Rows:          res.Rows,
		SeasonOptions: res.SeasonOptions,
		Selected:      res.Selected,
		Summary:       res.Summary,
		Chart:         BuildChart(res.Summary),
	})
}

type previewResponse struct {
	models.Preview
	SeasonOptions []models.Season `json:"season_options"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	seasons, err := parseSeasons(r)
	if err != nil {
		_ = render.Render(w, r, errInvalidParameter(err.Error()))
		return
	}
	res, err := s.runner.Preview(r.Context(), seasons)
	if err != nil {
		_ = render.Render(w, r, errDatasetUnavailable(err))
		return
	}
	render.JSON(w, r, previewResponse{Preview: res.Preview, SeasonOptions: res.SeasonOptions})
}

func missingColumns(err error) *apiError {
	var mc *services.MissingColumnsError
	if errors.As(err, &mc) {
		return errMissingColumns(err, mc.Columns)
	}
	return errMissingColumns(err, nil)
}

func seasonNames(seasons []models.Season) string {
	if len(seasons) == 0 {
		return "none"
	}
	names := make([]string, len(seasons))
	for i, s := range seasons {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("[http] %s %s %d %v", r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
