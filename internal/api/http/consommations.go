package http

import (
	"net/http"

	"sejour-pms/internal/domain"
)

type addConsommationRequest struct {
	ExtraID  int32 `json:"extra_id" validate:"required"`
	Quantite int32 `json:"quantite"`
}

type quantiteRequest struct {
	Quantite int32 `json:"quantite"`
}

type batchRequest struct {
	Operations []domain.ConsommationOp `json:"operations" validate:"dive"`
}

func (s *Server) listConsommations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Consommations.ListConsommations(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) addConsommation(w http.ResponseWriter, r *http.Request) {
	sejourID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := addConsommationRequest{Quantite: 1}
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.svc.Consommations.AddConsommation(r.Context(), sejourID, req.ExtraID, req.Quantite)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Extra ajouté au séjour", map[string]interface{}{"sejour_extra_id": c.ID})
}

// updateConsommation sets the quantity of a recorded line. Quantities of
// zero or less are refused; removal goes through DELETE.
func (s *Server) updateConsommation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req quantiteRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Consommations.UpdateConsommation(r.Context(), id, req.Quantite); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Quantité mise à jour", nil)
}

func (s *Server) deleteConsommation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Consommations.DeleteConsommation(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Extra retiré du séjour", nil)
}

func (s *Server) batchConsommations(w http.ResponseWriter, r *http.Request) {
	sejourID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req batchRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Consommations.ApplyBatch(r.Context(), sejourID, req.Operations)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Modifications enregistrées", map[string]interface{}{
		"applied": len(req.Operations),
		"extras":  list,
	})
}
