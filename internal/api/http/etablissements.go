package http

import (
	"net/http"

	"sejour-pms/internal/domain"
)

func (s *Server) listEtablissements(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Etablissements.ListEtablissements(r.Context(), queryBool(r, "actif_only"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getEtablissement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.svc.Etablissements.GetEtablissement(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) createEtablissement(w http.ResponseWriter, r *http.Request) {
	var e domain.Etablissement
	if err := s.decode(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Etablissements.CreateEtablissement(r.Context(), &e); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Établissement créé avec succès", map[string]interface{}{"id": e.ID})
}

func (s *Server) updateEtablissement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var e domain.Etablissement
	if err := s.decode(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = id
	if err := s.svc.Etablissements.UpdateEtablissement(r.Context(), &e); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Établissement mis à jour avec succès", nil)
}

func (s *Server) listChambres(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Etablissements.ListChambres(r.Context(), etabID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) availableChambres(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	list, err := s.svc.Etablissements.ListAvailableChambres(r.Context(), etabID, q.Get("date_debut"), q.Get("date_fin"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createChambre(w http.ResponseWriter, r *http.Request) {
	var c domain.Chambre
	if err := s.decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Etablissements.CreateChambre(r.Context(), &c); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Chambre créée avec succès", map[string]interface{}{"id": c.ID})
}

func (s *Server) updateChambre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var c domain.Chambre
	if err := s.decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	c.ID = id
	if err := s.svc.Etablissements.UpdateChambre(r.Context(), &c); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Chambre mise à jour avec succès", nil)
}

func (s *Server) deleteChambre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Etablissements.DeleteChambre(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Chambre supprimée", nil)
}
