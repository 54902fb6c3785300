package web

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleCMSStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "cms stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"cms_url": s.cfg.CMSURL,
		"stats":   s.stats.Snapshot(),
	})
}
