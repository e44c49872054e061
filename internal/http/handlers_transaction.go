package http

import (
	"net/http"
	"time"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	txs, err := s.reader.ListTransactions(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "list transactions", err)
		return
	}
	out := make([]transactionPayload, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionToPayload(t))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.reader.GetTransaction(ctx, r.PathValue("id"))
	if err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, transactionToPayload(t))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	t, err := p.toCore()
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	t.ID = ""
	if err := t.Validate(); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	created, err := s.svc.CreateTransaction(ctx, t)
	if err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, transactionToPayload(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	t, err := p.toCore()
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	t.ID = r.PathValue("id")
	if err := t.Validate(); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := s.svc.UpdateTransaction(ctx, t); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, transactionToPayload(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.svc.DeleteTransaction(ctx, r.PathValue("id")); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePayTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body struct {
		Paid *bool `json:"paid"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	paid := true
	if body.Paid != nil {
		paid = *body.Paid
	}
	if err := s.svc.MarkTransactionPaid(ctx, r.PathValue("id"), paid); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteRecurringChain removes every projected occurrence of a
// recurring chain from the given date forward. Earlier occurrences stay on
// record.
func (s *Server) handleDeleteRecurringChain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from := s.now()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		from = parsed
	} else {
		// Default cut point is the start of the current month.
		from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	n, err := s.svc.DeleteRecurringChain(ctx, r.PathValue("groupID"), from)
	if err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]int64{"deleted": n})
}
