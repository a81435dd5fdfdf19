package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/showloom-cli/internal/analysis"
	"github.com/KaramelBytes/showloom-cli/internal/filter"
	"github.com/KaramelBytes/showloom-cli/internal/session"
	"github.com/KaramelBytes/showloom-cli/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// ViewParams are the control-surface query parameters.
type ViewParams struct {
	YearMin    int      `json:"year_min" validate:"omitempty,gte=1800,lte=2200"`
	YearMax    int      `json:"year_max" validate:"omitempty,gte=1800,lte=2200"`
	Categories []string `json:"category" validate:"omitempty,dive,max=200"`
	Languages  []string `json:"language" validate:"omitempty,dive,max=200"`
	TopN       int      `json:"top_n" validate:"omitempty,gte=3,lte=20"`
}

func newViewValidator() *validation.Validator {
	v := validation.New()
	v.RegisterStruct(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(ViewParams)
		switch {
		case p.YearMin != 0 && p.YearMax == 0:
			sl.ReportError(p.YearMax, "year_max", "YearMax", "required_with", "year_min")
		case p.YearMax != 0 && p.YearMin == 0:
			sl.ReportError(p.YearMin, "year_min", "YearMin", "required_with", "year_max")
		case p.YearMax < p.YearMin:
			sl.ReportError(p.YearMax, "year_max", "YearMax", "gtefield", "year_min")
		}
	}, ViewParams{})
	return v
}

// Request converts validated params into a session request.
func (p ViewParams) Request(defaultTopN int) session.Request {
	req := session.Request{
		Criteria: filter.Criteria{Categories: p.Categories, Languages: p.Languages},
		TopN:     p.TopN,
	}
	if req.TopN == 0 {
		req.TopN = defaultTopN
	}
	if p.YearMin != 0 {
		req.Criteria.Years = &filter.YearRange{Min: p.YearMin, Max: p.YearMax}
	}
	return req
}

func (s *Server) parseViewParams(r *http.Request) (ViewParams, error) {
	q := r.URL.Query()
	var p ViewParams
	bad := map[string]string{}
	atoi := func(key string) int {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			bad[key] = "must be an integer"
		}
		return n
	}
	p.YearMin = atoi("year_min")
	p.YearMax = atoi("year_max")
	p.TopN = atoi("top_n")
	if vals, ok := q["category"]; ok {
		p.Categories = nonEmpty(vals)
	}
	if vals, ok := q["language"]; ok {
		p.Languages = nonEmpty(vals)
	}
	if len(bad) > 0 {
		return p, &validation.Error{Fields: bad}
	}
	return p, s.validate.Validate(p)
}

// nonEmpty drops blank values but keeps an explicit empty selection non-nil.
func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

type sessionInfo struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
}

type datasetInfo struct {
	*session.Loaded
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	ok(w, map[string]any{"status": "ok", "sessions": s.store.Len()}, s.log)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Create()
	created(w, sessionInfo{ID: sess.ID.String(), Created: sess.Created}, s.log)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		handleError(w, err, s.log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	name, data, err := readUpload(r)
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	s.load(w, r, sess, session.Upload(name, data))
}

func (s *Server) handleLoadDefault(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	if s.cfg.DefaultCSV == "" {
		fail(w, http.StatusNotFound, "no default dataset configured", s.log)
		return
	}
	s.load(w, r, sess, session.LocalFile(s.cfg.DefaultCSV))
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, sess *session.Session, src session.Source) {
	l, err := sess.Load(r.Context(), src)
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	ok(w, datasetInfo{Loaded: l, Rows: l.Dataset.Len(), Columns: l.Dataset.Columns}, s.log)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	p, err := s.parseViewParams(r)
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	v, err := sess.View(p.Request(s.cfg.TopN))
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	ok(w, v, s.log)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	p, err := s.parseViewParams(r)
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	rep, err := sess.Report(p.Request(s.cfg.TopN))
	if err != nil {
		handleError(w, err, s.log)
		return
	}
	w.Header().Set("Content-Type", analysis.ReportMIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.cfg.ReportFileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, rep.Text())
}

// readUpload accepts multipart form data (field "file") or a raw request body.
func readUpload(r *http.Request) (string, []byte, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return "", nil, err
			}
			return "", nil, &validation.Error{Fields: map[string]string{"file": "is required"}}
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, fmt.Errorf("read upload: %w", err)
		}
		return hdr.Filename, data, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return "", nil, &validation.Error{Fields: map[string]string{"body": "is required"}}
	}
	return r.URL.Query().Get("name"), data, nil
}
