package api

import (
	"encoding/json"
	"net/http"
)

// handleChunkStats aggregates chunk statistics across all processed
// documents.
func (s *Server) handleChunkStats(w http.ResponseWriter, r *http.Request) {
	reports, err := s.loadReports()
	if err != nil {
		jsonError(w, "failed to read reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var totalChunks, level1, level2, oversize int
	var weightedLen float64
	perDoc := make([]map[string]any, 0, len(reports))
	for _, rep := range reports {
		totalChunks += rep.Stats.Count
		level1 += rep.Stats.Level1
		level2 += rep.Stats.Level2
		oversize += rep.Stats.Oversize
		weightedLen += rep.Stats.AvgLen * float64(rep.Stats.Count)
		perDoc = append(perDoc, map[string]any{
			"document": rep.Document,
			"genre":    rep.Genre,
			"stats":    rep.Stats,
		})
	}

	avgLen := 0.0
	if totalChunks > 0 {
		avgLen = weightedLen / float64(totalChunks)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"documents":    len(reports),
		"total_chunks": totalChunks,
		"level1":       level1,
		"level2":       level2,
		"oversize":     oversize,
		"avg_len":      avgLen,
		"queue_depth":  s.orchestrator.QueueDepth(),
		"per_document": perDoc,
	})
}
