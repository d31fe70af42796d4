package http

import (
	"net/http"
	"strings"

	"sejour-pms/internal/domain"
)

type sejourPayload struct {
	Sejour    domain.Sejour     `json:"sejour"`
	Personnes []domain.Personne `json:"personnes" validate:"omitempty,dive"`
}

func (s *Server) listSejours(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := domain.SejourFilter{
		EtablissementID: etabID,
		Statut:          domain.SejourStatus(r.URL.Query().Get("statut")),
		Search:          strings.TrimSpace(r.URL.Query().Get("search")),
	}
	list, err := s.svc.Sejours.ListSejours(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getSejour(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := s.svc.Sejours.GetSejourDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) generateNumero(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	numero, err := s.svc.Sejours.GenerateNumeroReservation(r.Context(), etabID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"numero": numero})
}

func (s *Server) createSejour(w http.ResponseWriter, r *http.Request) {
	var p sejourPayload
	if err := s.decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Sejours.CreateSejour(r.Context(), &p.Sejour, p.Personnes); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Séjour créé avec succès", map[string]interface{}{
		"sejour_id":          p.Sejour.ID,
		"numero_reservation": p.Sejour.NumeroReservation,
	})
}

func (s *Server) updateSejour(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var p sejourPayload
	if err := s.decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	p.Sejour.ID = id
	if err := s.svc.Sejours.UpdateSejour(r.Context(), &p.Sejour, p.Personnes); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Séjour mis à jour avec succès", nil)
}

func (s *Server) deleteSejour(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Sejours.DeleteSejour(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Séjour supprimé avec succès", nil)
}

func (s *Server) closeSejour(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sejour, err := s.svc.Sejours.CloseSejour(r.Context(), id, r.Header.Get("X-User"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Séjour clôturé avec succès", map[string]interface{}{"sejour": sejour})
}
