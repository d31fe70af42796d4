package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sejour-pms/internal/domain"
)

type newsletterRequest struct {
	EtablissementID int32    `json:"etablissement_id"`
	Subject         string   `json:"subject" validate:"required"`
	Content         string   `json:"content" validate:"required"`
	ContentType     string   `json:"content_type" validate:"omitempty,oneof=markdown html"`
	RecipientEmails []string `json:"recipient_emails" validate:"required,min=1,dive,email"`
}

func (s *Server) sendNewsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	n := &domain.Newsletter{
		EtablissementID: req.EtablissementID,
		Subject:         req.Subject,
		Content:         req.Content,
		ContentType:     req.ContentType,
		RecipientEmails: req.RecipientEmails,
	}
	if err := s.svc.Newsletters.SendNewsletter(r.Context(), n); err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, fmt.Sprintf("Newsletter envoyée à %d destinataire(s)", len(n.RecipientEmails)),
		map[string]interface{}{"id": n.ID})
}

func (s *Server) listNewsletters(w http.ResponseWriter, r *http.Request) {
	etabID, err := queryInt32(r, "etablissement_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Newsletters.ListNewsletters(r.Context(), etabID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) exportClients(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	n, err := s.svc.Exports.ExportClients(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")), &buf)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filename := fmt.Sprintf("clients_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Total-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt32(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Activity.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
