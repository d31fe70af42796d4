package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
)

type sendFactureRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func (s *Server) generateFacture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	inv, err := s.svc.Invoices.GenerateInvoice(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inv.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(inv.PDF)))
	if inv.ArchiveKey != "" && s.archive != nil {
		w.Header().Set("X-Archive-URL", s.archive.DownloadURL(inv.ArchiveKey))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(inv.PDF)
}

func (s *Server) sendFacture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req sendFactureRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid email", errBadRequest))
		return
	}
	to, err := s.svc.Invoices.SendInvoice(r.Context(), id, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Facture envoyée à "+to, map[string]interface{}{"email": to})
}

// downloadArchivedFacture streams an archived invoice PDF.
func (s *Server) downloadArchivedFacture(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": "archive disabled"})
		return
	}
	key := r.URL.Query().Get("key")
	if key == "" || path.Ext(key) != ".pdf" {
		writeError(w, r, fmt.Errorf("%w: missing or invalid key", errBadRequest))
		return
	}

	ok, size, err := s.archive.Exists(r.Context(), key)
	if err != nil || !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": "Facture non trouvée"})
		return
	}
	file, err := s.archive.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = io.Copy(w, file)
}
