package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/service"
	"sejour-pms/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	sejours  *MockSejourService
	conso    *MockConsommationService
	invoices *MockInvoiceService
	cals     *MockCalendarService
	activity *MockActivityService
	etabs    *MockEtablissementService
	clients  *MockClientService
	stats    *MockStatisticsService
	handler  http.Handler
}

func newTestAPI(t *testing.T, archive storage.StorageInterface) *testAPI {
	t.Helper()
	a := &testAPI{
		sejours:  new(MockSejourService),
		conso:    new(MockConsommationService),
		invoices: new(MockInvoiceService),
		cals:     new(MockCalendarService),
		activity: new(MockActivityService),
		etabs:    new(MockEtablissementService),
		clients:  new(MockClientService),
		stats:    new(MockStatisticsService),
	}
	a.activity.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()
	srv := NewServer(Services{
		Sejours:        a.sejours,
		Consommations:  a.conso,
		Invoices:       a.invoices,
		Calendars:      a.cals,
		Activity:       a.activity,
		Etablissements: a.etabs,
		Clients:        a.clients,
		Statistics:     a.stats,
	}, archive)
	a.handler = srv.Router()
	return a
}

func (a *testAPI) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("sejour 1: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrSejourClosed, http.StatusConflict},
		{service.ErrSejourNotClosed, http.StatusConflict},
		{service.ErrAlreadyClosed, http.StatusBadRequest},
		{service.ErrInvalidQuantity, http.StatusBadRequest},
		{service.ErrURLNotAllowed, http.StatusBadRequest},
		{errBadRequest, http.StatusBadRequest},
		{service.ErrMailDisabled, http.StatusServiceUnavailable},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestGetSejour(t *testing.T) {
	a := newTestAPI(t, nil)
	a.sejours.On("GetSejourDetail", mock.Anything, int32(5)).Return(&domain.SejourDetail{
		Sejour:    &domain.Sejour{ID: 5, NumeroReservation: "RES-0005", Statut: domain.SejourStatusActive},
		Personnes: []domain.Personne{},
		Chambres:  []domain.Chambre{},
		Extras:    []domain.Consommation{{ID: 7, ExtraID: 2, Nom: "Spa", Quantite: 1}},
	}, nil)
	a.sejours.On("GetSejourDetail", mock.Anything, int32(6)).Return(nil, fmt.Errorf("sejour 6: %w", service.ErrNotFound))

	rec := a.do(http.MethodGet, "/api/sejours/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "RES-0005", body["sejour"].(map[string]interface{})["numero_reservation"])
	extra := body["extras"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(7), extra["sejour_extra_id"])
	assert.Equal(t, float64(2), extra["id"])

	rec = a.do(http.MethodGet, "/api/sejours/6", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestCloseSejour(t *testing.T) {
	t.Run("Success is recorded in the activity log", func(t *testing.T) {
		a := newTestAPI(t, nil)
		closedAt := time.Now()
		a.sejours.On("CloseSejour", mock.Anything, int32(5), "").
			Return(&domain.Sejour{ID: 5, Statut: domain.SejourStatusClosed, ClosedAt: &closedAt}, nil)

		rec := a.do(http.MethodPost, "/api/sejours/5/close", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["success"])
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
		a.activity.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(l *domain.ActivityLog) bool {
			return l.Action == "sejour.close" && l.StatusCode == http.StatusOK && l.Path == "/api/sejours/5/close"
		}))
	})

	t.Run("Already closed", func(t *testing.T) {
		a := newTestAPI(t, nil)
		a.sejours.On("CloseSejour", mock.Anything, int32(5), "").Return(nil, service.ErrAlreadyClosed)

		rec := a.do(http.MethodPost, "/api/sejours/5/close", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConsommationRoutes(t *testing.T) {
	t.Run("Add defaults quantity to one", func(t *testing.T) {
		a := newTestAPI(t, nil)
		a.conso.On("AddConsommation", mock.Anything, int32(5), int32(2), int32(1)).Return(&domain.Consommation{ID: 11}, nil)

		rec := a.do(http.MethodPost, "/api/sejours/5/extras", `{"extra_id": 2}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, float64(11), decodeBody(t, rec)["sejour_extra_id"])
	})

	t.Run("Closed stay is a conflict", func(t *testing.T) {
		a := newTestAPI(t, nil)
		a.conso.On("AddConsommation", mock.Anything, int32(5), int32(2), int32(3)).Return(nil, service.ErrSejourClosed)

		rec := a.do(http.MethodPost, "/api/sejours/5/extras", `{"extra_id": 2, "quantite": 3}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Missing extra id", func(t *testing.T) {
		a := newTestAPI(t, nil)
		rec := a.do(http.MethodPost, "/api/sejours/5/extras", `{"quantite": 3}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		a.conso.AssertNotCalled(t, "AddConsommation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Update and delete", func(t *testing.T) {
		a := newTestAPI(t, nil)
		a.conso.On("UpdateConsommation", mock.Anything, int32(7), int32(0)).Return(service.ErrInvalidQuantity)
		a.conso.On("DeleteConsommation", mock.Anything, int32(7)).Return(nil)

		rec := a.do(http.MethodPut, "/api/sejours/extras/7", `{"quantite": 0}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = a.do(http.MethodDelete, "/api/sejours/extras/7", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Batch", func(t *testing.T) {
		a := newTestAPI(t, nil)
		ops := []domain.ConsommationOp{
			{Op: domain.ConsommationOpCreate, ExtraID: 2, Quantite: 2},
			{Op: domain.ConsommationOpUpdate, SejourExtraID: 7, Quantite: 4},
		}
		a.conso.On("ApplyBatch", mock.Anything, int32(5), ops).Return([]domain.Consommation{{ID: 7}, {ID: 12}}, nil)

		rec := a.do(http.MethodPost, "/api/sejours/5/extras/batch",
			`{"operations":[{"op":"create","extra_id":2,"quantite":2},{"op":"update","sejour_extra_id":7,"quantite":4}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["applied"])
		assert.Len(t, body["extras"], 2)
	})

	t.Run("Batch with an unknown op is rejected", func(t *testing.T) {
		a := newTestAPI(t, nil)
		rec := a.do(http.MethodPost, "/api/sejours/5/extras/batch", `{"operations":[{"op":"delete","sejour_extra_id":7,"quantite":1}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFactureRoutes(t *testing.T) {
	archive, err := storage.NewLocalStorage("http://localhost:8080", t.TempDir())
	require.NoError(t, err)

	a := newTestAPI(t, archive)
	pdf := []byte("%PDF-1.3 test")
	a.invoices.On("GenerateInvoice", mock.Anything, int32(5)).Return(&service.Invoice{
		Numero: "RES-0005", Filename: "facture_RES-0005.pdf", PDF: pdf, ArchiveKey: "factures/1/facture_RES-0005.pdf",
	}, nil)
	a.invoices.On("GenerateInvoice", mock.Anything, int32(6)).Return(nil, service.ErrSejourNotClosed)

	rec := a.do(http.MethodPost, "/api/sejours/5/facture", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "facture_RES-0005.pdf")
	assert.Contains(t, rec.Header().Get("X-Archive-URL"), "/api/factures/archive?key=")
	assert.Equal(t, pdf, rec.Body.Bytes())

	rec = a.do(http.MethodPost, "/api/sejours/6/facture", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	t.Run("Archive download", func(t *testing.T) {
		require.NoError(t, archive.Save(context.Background(), "factures/1/facture_RES-0005.pdf", strings.NewReader(string(pdf))))

		rec := a.do(http.MethodGet, "/api/factures/archive?key=factures/1/facture_RES-0005.pdf", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pdf, rec.Body.Bytes())

		rec = a.do(http.MethodGet, "/api/factures/archive?key=factures/1/missing.pdf", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = a.do(http.MethodGet, "/api/factures/archive?key=../../etc/passwd", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Send uses the principal contact when no email is given", func(t *testing.T) {
		a.invoices.On("SendInvoice", mock.Anything, int32(5), "").Return("paul@example.com", nil)
		rec := a.do(http.MethodPost, "/api/sejours/5/facture/envoyer", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "paul@example.com", decodeBody(t, rec)["email"])
	})
}

func TestSyncCalendar(t *testing.T) {
	a := newTestAPI(t, nil)
	a.cals.On("SyncCalendar", mock.Anything, int32(3)).Return(&domain.SyncResult{Success: true, Message: "2 séjour(s) synchronisée(s)", Count: 2}, nil)
	a.cals.On("SyncCalendar", mock.Anything, int32(4)).Return(
		&domain.SyncResult{Success: false, Message: "Erreur de connexion: timeout"},
		fmt.Errorf("%w: timeout", service.ErrSyncFailed))

	rec := a.do(http.MethodPost, "/api/calendriers/3/synchroniser", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["count"])

	rec = a.do(http.MethodPost, "/api/calendriers/4/synchroniser", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Erreur de connexion: timeout", body["message"])
}
