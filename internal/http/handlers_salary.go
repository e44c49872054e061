package http

import (
	"net/http"
	"time"

	"financas/internal/core"
)

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	salaries, err := s.reader.ListSalaries(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "list salaries", err)
		return
	}
	out := make([]salaryPayload, 0, len(salaries))
	for _, sal := range salaries {
		out = append(out, salaryToPayload(sal))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p salaryPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sal, err := p.toCore()
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sal.ID = ""
	if err := sal.Validate(); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	created, err := s.svc.CreateSalary(ctx, sal)
	if err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, salaryToPayload(created))
}

func (s *Server) handleUpdateSalary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p salaryPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sal, err := p.toCore()
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sal.ID = r.PathValue("id")
	if err := sal.Validate(); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := s.svc.UpdateSalary(ctx, sal); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, salaryToPayload(sal))
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.svc.DeleteSalary(ctx, r.PathValue("id")); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSalaryAdjustments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year, month, err := parsePeriod(r, s.now())
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	adjustments, err := s.reader.ListSalaryAdjustments(ctx, year, month)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "list salary adjustments", err)
		return
	}
	out := make([]adjustmentPayload, 0, len(adjustments))
	for _, a := range adjustments {
		out = append(out, adjustmentToPayload(a))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (s *Server) handleSetSalaryAdjustment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p adjustmentPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if p.Year < 1970 || p.Month < 1 || p.Month > 12 {
		writeError(ctx, w, http.StatusBadRequest, "invalid year or month", nil)
		return
	}
	adj := core.SalaryAdjustment{
		SalaryID:    r.PathValue("id"),
		Year:        p.Year,
		Month:       time.Month(p.Month),
		Amount:      core.Money{Cents: p.AmountCents},
		Description: sanitizeInput(p.Description),
	}
	if err := adj.Amount.Validate(); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := s.svc.SetSalaryAdjustment(ctx, adj); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adjustmentToPayload(adj))
}

func (s *Server) handleRemoveSalaryAdjustment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year, month, err := parsePeriod(r, s.now())
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	key := core.AdjustmentKey{SalaryID: r.PathValue("id"), Year: year, Month: month}
	if err := s.svc.RemoveSalaryAdjustment(ctx, key); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
