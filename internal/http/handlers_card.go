package http

import "net/http"

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cards, err := s.reader.ListCreditCards(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "list cards", err)
		return
	}
	out := make([]cardPayload, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToPayload(c))
	}
	writeJSON(ctx, w, http.StatusOK, out)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p cardPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	card := p.toCore()
	card.ID = ""
	if err := card.Validate(); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	created, err := s.svc.CreateCreditCard(ctx, card)
	if err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, cardToPayload(created))
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var p cardPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	card := p.toCore()
	card.ID = r.PathValue("id")
	if err := card.Validate(); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := s.svc.UpdateCreditCard(ctx, card); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, cardToPayload(card))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.svc.DeleteCreditCard(ctx, r.PathValue("id")); err != nil {
		writeStorageError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
