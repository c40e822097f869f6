package api

import (
	"log"
	"net/http"

	"ChartVault/internal/model"
)

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = "5y"
	}
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "1d"
	}
	log.Printf("[INFO] chart request: symbol=%s range=%s interval=%s", symbol, rng, interval)

	data, err := s.charts.GetChartData(symbol, rng, interval)
	if err != nil {
		log.Printf("[ERROR] failed to get chart for %s: %v", symbol, err)
		// Upstream-shaped error envelope so chart clients can parse it.
		writeJSON(w, http.StatusBadGateway, &model.YahooChart{
			Chart: model.YahooChartBody{
				Result: []model.YahooResult{},
				Error:  &model.YahooError{Description: err.Error()},
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, data.ToYahooFormat())
}
