package http

import (
	"net/http"
	"strings"

	"sejour-pms/internal/domain"
)

func statsFilter(r *http.Request) (domain.StatsFilter, error) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		return domain.StatsFilter{}, err
	}
	q := r.URL.Query()
	return domain.StatsFilter{
		EtablissementID: etabID,
		DateDebut:       strings.TrimSpace(q.Get("date_debut")),
		DateFin:         strings.TrimSpace(q.Get("date_fin")),
	}, nil
}

func (s *Server) globalStatistics(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := s.svc.Statistics.GetGlobal(r.Context(), etabID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) occupancyStatistics(w http.ResponseWriter, r *http.Request) {
	f, err := statsFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := s.svc.Statistics.GetOccupancy(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) revenueStatistics(w http.ResponseWriter, r *http.Request) {
	f, err := statsFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := s.svc.Statistics.GetRevenue(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// rankedStatistics serves the list endpoints taking etablissement_id and a
// count parameter (limit or months).
func (s *Server) rankedStatistics(countParam string, fetch func(r *http.Request, etabID, n int32) (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		etabID, err := queryInt32(r, "etablissement_id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		n, err := queryInt32(r, countParam)
		if err != nil {
			writeError(w, r, err)
			return
		}
		list, err := fetch(r, etabID, n)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) topCountries(r *http.Request, etabID, limit int32) (interface{}, error) {
	return s.svc.Statistics.GetTopCountries(r.Context(), etabID, limit)
}

func (s *Server) sejoursByOccupants(r *http.Request, etabID, limit int32) (interface{}, error) {
	return s.svc.Statistics.GetSejoursByOccupants(r.Context(), etabID, limit)
}

func (s *Server) sejoursByRooms(r *http.Request, etabID, limit int32) (interface{}, error) {
	return s.svc.Statistics.GetSejoursByRooms(r.Context(), etabID, limit)
}

func (s *Server) monthlyTrends(r *http.Request, etabID, months int32) (interface{}, error) {
	return s.svc.Statistics.GetMonthlyTrends(r.Context(), etabID, months)
}
