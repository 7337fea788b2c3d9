package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/pipeline"
)

// handleListDocuments lists processed documents from their stored reports.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	reports, err := s.loadReports()
	if err != nil {
		jsonError(w, "failed to read reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	docs := make([]map[string]any, 0, len(reports))
	for _, rep := range reports {
		docs = append(docs, map[string]any{
			"document":     rep.Document,
			"genre":        rep.Genre,
			"type_name":    rep.TypeName,
			"chunks":       rep.Stats.Count,
			"delivered":    rep.Delivered,
			"processed_at": rep.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument removes a document's chunks from the index and its
// local report.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docName := chi.URLParam(r, "docName")
	if docName == "" {
		jsonError(w, "document name is required", http.StatusBadRequest)
		return
	}

	indexDeleted := false
	if s.index != nil {
		if err := s.index.DeleteDocument(r.Context(), docName); err != nil {
			jsonError(w, "index delete failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		indexDeleted = true
	}

	reportDeleted := false
	if s.cfg.ReportsDir != "" {
		path, ok := s.findReportFile(docName)
		if ok {
			if err := os.Remove(path); err == nil {
				reportDeleted = true
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"document":       docName,
		"index_deleted":  indexDeleted,
		"report_deleted": reportDeleted,
	})
}

// loadReports reads every report JSON under ReportsDir. Unreadable files are
// skipped rather than failing the listing.
func (s *Server) loadReports() ([]pipeline.Report, error) {
	if s.cfg.ReportsDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.cfg.ReportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var reports []pipeline.Report
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		body, err := os.ReadFile(filepath.Join(s.cfg.ReportsDir, entry.Name()))
		if err != nil {
			continue
		}
		var rep pipeline.Report
		if err := json.Unmarshal(body, &rep); err != nil {
			s.log.Warn("skipping malformed report", "file", entry.Name(), "error", err)
			continue
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (s *Server) findReportFile(docName string) (string, bool) {
	entries, err := os.ReadDir(s.cfg.ReportsDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.cfg.ReportsDir, entry.Name())
		body, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var rep pipeline.Report
		if json.Unmarshal(body, &rep) == nil && rep.Document == docName {
			return path, true
		}
	}
	return "", false
}
