package http

import "net/http"

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year, month, err := parsePeriod(r, s.now())
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	summary, err := s.reports.Summary(ctx, year, month)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "compute summary", err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, summary)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year, month, err := parsePeriod(r, s.now())
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	rep, err := s.reports.MonthReport(ctx, year, month)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "compute report", err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, rep)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year, month, err := parsePeriod(r, s.now())
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	series, err := s.reports.TrendSeries(ctx, year, month)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "compute trend", err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, series)
}
