package http

import (
	"errors"
	"io"
	"net/http"

	"spendtrack/internal/csvio"
)

// maxImportBytes caps the accepted CSV upload size.
const maxImportBytes = 10 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.importExport.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export expenses")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(data))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := s.importExport.Import(r.Context(), string(body))
	if err != nil {
		switch {
		case errors.Is(err, csvio.ErrEmptyFile):
			writeError(w, http.StatusBadRequest, "CSV file is empty")
		case errors.Is(err, csvio.ErrInvalidHeaders):
			writeError(w, http.StatusBadRequest, "CSV headers do not match the expected format")
		default:
			writeError(w, http.StatusInternalServerError, "failed to import expenses")
		}
		return
	}

	s.invalidateReports()
	writeJSON(w, http.StatusOK, result)
}
