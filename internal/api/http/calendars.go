package http

import (
	"errors"
	"net/http"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/service"
)

func (s *Server) listCalendars(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Calendars.ListCalendars(r.Context(), etabID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.svc.Calendars.GetCalendar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createCalendar(w http.ResponseWriter, r *http.Request) {
	c := domain.CalendrierIcal{Actif: true}
	if err := s.decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Calendars.CreateCalendar(r.Context(), &c); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Calendrier créé avec succès", map[string]interface{}{"id": c.ID})
}

func (s *Server) updateCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var c domain.CalendrierIcal
	if err := s.decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	c.ID = id
	if err := s.svc.Calendars.UpdateCalendar(r.Context(), &c); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Calendrier mis à jour avec succès", nil)
}

func (s *Server) deleteCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Calendars.DeleteCalendar(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Calendrier supprimé avec succès", nil)
}

// syncCalendar answers the sync result as is; failed syncs are 400 with the
// same body shape.
func (s *Server) syncCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Calendars.SyncCalendar(r.Context(), id)
	if err != nil {
		if res != nil && (errors.Is(err, service.ErrSyncFailed) || errors.Is(err, service.ErrURLNotAllowed)) {
			writeJSON(w, http.StatusBadRequest, res)
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) calendarReservations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Calendars.ListReservations(r.Context(), domain.ReservationFilter{CalendrierID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) listReservations(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	list, err := s.svc.Calendars.ListReservations(r.Context(), domain.ReservationFilter{
		EtablissementID: etabID,
		DateDebut:       q.Get("date_debut"),
		DateFin:         q.Get("date_fin"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
