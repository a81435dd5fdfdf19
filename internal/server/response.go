package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/KaramelBytes/showloom-cli/internal/dataset"
	"github.com/KaramelBytes/showloom-cli/internal/logger"
	"github.com/KaramelBytes/showloom-cli/internal/parser"
	"github.com/KaramelBytes/showloom-cli/internal/session"
	"github.com/KaramelBytes/showloom-cli/internal/validation"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	env.Success = status < 400
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func ok(w http.ResponseWriter, data any, log *logger.Logger) {
	writeJSON(w, http.StatusOK, Envelope{Data: data}, log)
}

func created(w http.ResponseWriter, data any, log *logger.Logger) {
	writeJSON(w, http.StatusCreated, Envelope{Data: data}, log)
}

func fail(w http.ResponseWriter, status int, msg string, log *logger.Logger) {
	writeJSON(w, status, Envelope{Error: msg}, log)
}

// handleError maps domain errors to status codes; anything unknown is a 500.
func handleError(w http.ResponseWriter, err error, log *logger.Logger) {
	var (
		verr   *validation.Error
		ingest *parser.IngestionError
		schema *dataset.SchemaError
		srcErr *session.SourceError
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.Is(err, session.ErrNotFound):
		fail(w, http.StatusNotFound, err.Error(), log)
	case errors.As(err, &verr):
		fail(w, http.StatusBadRequest, err.Error(), log)
	case errors.As(err, &tooBig):
		fail(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit", log)
	case errors.As(err, &ingest):
		fail(w, http.StatusUnprocessableEntity, "could not read the file as delimited text: "+err.Error(), log)
	case errors.As(err, &schema):
		fail(w, http.StatusUnprocessableEntity, err.Error(), log)
	case errors.As(err, &srcErr) && errors.Is(err, fs.ErrNotExist):
		fail(w, http.StatusNotFound, "default dataset not found: "+srcErr.Path, log)
	case errors.Is(err, session.ErrNoDataset):
		fail(w, http.StatusConflict, "no dataset loaded; upload a file first", log)
	default:
		log.WithError(err).Error("unhandled error")
		fail(w, http.StatusInternalServerError, "internal server error", log)
	}
}
