package http

import (
	"net/http"

	"sejour-pms/internal/domain"
)

func (s *Server) listExtras(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Extras.ListExtras(r.Context(), etabID, queryBool(r, "actif_only"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getExtra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	x, err := s.svc.Extras.GetExtra(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, x)
}

func (s *Server) createExtra(w http.ResponseWriter, r *http.Request) {
	x := domain.Extra{Actif: true}
	if err := s.decode(r, &x); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Extras.CreateExtra(r.Context(), &x); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Extra créé avec succès", map[string]interface{}{"id": x.ID})
}

func (s *Server) updateExtra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var x domain.Extra
	if err := s.decode(r, &x); err != nil {
		writeError(w, r, err)
		return
	}
	x.ID = id
	if err := s.svc.Extras.UpdateExtra(r.Context(), &x); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Extra mis à jour avec succès", nil)
}

func (s *Server) deleteExtra(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Extras.DeleteExtra(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Extra supprimé avec succès", nil)
}

func (s *Server) extrasSummary(w http.ResponseWriter, r *http.Request) {
	etabID, err := pathID(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	summary, err := s.svc.Extras.GetSummary(r.Context(), etabID, q.Get("date_debut"), q.Get("date_fin"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
