package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleICal = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Airbnb Inc//Hosting Calendar//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTART;VALUE=DATE:20240610\r\n" +
	"DTEND;VALUE=DATE:20240614\r\n" +
	"UID:abc-123@airbnb.com\r\n" +
	"SUMMARY:Reserved\r\n" +
	"DESCRIPTION:Reservation URL\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTART:20240701T140000Z\r\n" +
	"DTEND:20240703T100000Z\r\n" +
	"UID:def-456@booking.com\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:no-dates@booking.com\r\n" +
	"SUMMARY:Blocked\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestValidateCalendarURL(t *testing.T) {
	tests := []struct {
		url     string
		allowed bool
	}{
		{"https://www.airbnb.com/calendar/ical/123.ics", true},
		{"http://admin.booking.com/export.ics", true},
		{"ftp://example.com/cal.ics", false},
		{"file:///etc/passwd", false},
		{"http://localhost:8080/cal.ics", false},
		{"http://127.0.0.1/cal.ics", false},
		{"http://0.0.0.0/cal.ics", false},
		{"http://169.254.169.254/latest/meta-data", false},
		{"http://[::1]/cal.ics", false},
		{"http://10.1.2.3/cal.ics", false},
		{"http://192.168.1.10/cal.ics", false},
		{"http://172.16.0.1/cal.ics", false},
		{"http://172.31.255.1/cal.ics", false},
		{"http://172.32.0.1/cal.ics", true},
		{"https:///nohost", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := service.ValidateCalendarURL(tt.url)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, service.ErrURLNotAllowed)
			}
		})
	}
}

func TestParseReservations(t *testing.T) {
	res, problems, err := service.ParseReservations(strings.NewReader(sampleICal))
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, res, 2)

	assert.Equal(t, "abc-123@airbnb.com", res[0].UIDIcal)
	assert.Equal(t, "Reserved", res[0].Titre)
	assert.Equal(t, "2024-06-10", res[0].DateDebut)
	assert.Equal(t, "2024-06-14", res[0].DateFin)
	assert.Equal(t, "Reservation URL", res[0].Description)

	assert.Equal(t, "Séjour", res[1].Titre)
	assert.Equal(t, "2024-07-01", res[1].DateDebut)
	assert.Equal(t, "2024-07-03", res[1].DateFin)
}

func TestCalendarService_SyncCalendar(t *testing.T) {
	ctx := context.Background()
	cal := &domain.CalendrierIcal{ID: 3, EtablissementID: 1, Nom: "Airbnb", IcalURL: "https://www.airbnb.com/calendar/ical/1.ics", Actif: true}

	t.Run("Imports events", func(t *testing.T) {
		calRepo := new(MockCalendarRepo)
		fetcher := new(MockFetcher)
		calRepo.On("GetByID", ctx, int32(3)).Return(cal, nil)
		fetcher.On("Fetch", ctx, cal.IcalURL).Return([]byte(sampleICal), nil)
		calRepo.On("UpsertReservations", ctx, int32(3), mock.MatchedBy(func(r []domain.ReservationIcal) bool {
			return len(r) == 2
		})).Return(2, nil)
		calRepo.On("UpdateSyncStatus", ctx, int32(3), domain.SyncStatusSuccess, "").Return(nil)

		svc := service.NewCalendarService(calRepo, new(MockEtablissementRepo), fetcher)
		res, err := svc.SyncCalendar(ctx, 3)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 2, res.Count)
		assert.Equal(t, "2 séjour(s) synchronisée(s)", res.Message)
		calRepo.AssertExpectations(t)
	})

	t.Run("Empty feed", func(t *testing.T) {
		calRepo := new(MockCalendarRepo)
		fetcher := new(MockFetcher)
		calRepo.On("GetByID", ctx, int32(3)).Return(cal, nil)
		fetcher.On("Fetch", ctx, cal.IcalURL).Return([]byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"), nil)
		calRepo.On("UpsertReservations", ctx, int32(3), mock.Anything).Return(0, nil)
		calRepo.On("UpdateSyncStatus", ctx, int32(3), domain.SyncStatusEmpty, "").Return(nil)

		svc := service.NewCalendarService(calRepo, new(MockEtablissementRepo), fetcher)
		res, err := svc.SyncCalendar(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Count)
		calRepo.AssertExpectations(t)
	})

	t.Run("Fetch failure marks the calendar in error", func(t *testing.T) {
		calRepo := new(MockCalendarRepo)
		fetcher := new(MockFetcher)
		calRepo.On("GetByID", ctx, int32(3)).Return(cal, nil)
		fetcher.On("Fetch", ctx, cal.IcalURL).Return(nil, errors.New("timeout"))
		calRepo.On("UpdateSyncStatus", ctx, int32(3), domain.SyncStatusError, "Erreur de connexion: timeout").Return(nil)

		svc := service.NewCalendarService(calRepo, new(MockEtablissementRepo), fetcher)
		res, err := svc.SyncCalendar(ctx, 3)
		assert.ErrorIs(t, err, service.ErrSyncFailed)
		require.NotNil(t, res)
		assert.False(t, res.Success)
		calRepo.AssertExpectations(t)
	})

	t.Run("Blocked URL is never fetched", func(t *testing.T) {
		calRepo := new(MockCalendarRepo)
		fetcher := new(MockFetcher)
		calRepo.On("GetByID", ctx, int32(4)).Return(&domain.CalendrierIcal{ID: 4, IcalURL: "http://127.0.0.1/x.ics"}, nil)

		svc := service.NewCalendarService(calRepo, new(MockEtablissementRepo), fetcher)
		_, err := svc.SyncCalendar(ctx, 4)
		assert.ErrorIs(t, err, service.ErrURLNotAllowed)
		fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})
}

func TestCalendarService_CreateCalendar(t *testing.T) {
	ctx := context.Background()
	calRepo := new(MockCalendarRepo)
	etabRepo := new(MockEtablissementRepo)
	svc := service.NewCalendarService(calRepo, etabRepo, nil)

	err := svc.CreateCalendar(ctx, &domain.CalendrierIcal{EtablissementID: 1, Nom: "Local", IcalURL: "http://192.168.0.2/cal.ics"})
	assert.ErrorIs(t, err, service.ErrURLNotAllowed)

	c := &domain.CalendrierIcal{EtablissementID: 1, Nom: "Booking", IcalURL: "https://admin.booking.com/ical/1.ics"}
	etabRepo.On("GetByID", ctx, int32(1)).Return(&domain.Etablissement{ID: 1}, nil)
	calRepo.On("Create", ctx, c).Return(nil)
	require.NoError(t, svc.CreateCalendar(ctx, c))
	assert.Equal(t, "autre", c.Plateforme)
}

func TestHTTPFetcher(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.ics" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(sampleICal))
	}))
	defer srv.Close()

	f := service.NewHTTPFetcher(5*time.Second, 16)

	body, err := f.Fetch(ctx, srv.URL+"/cal.ics")
	require.NoError(t, err)
	assert.Len(t, body, 16)

	_, err = f.Fetch(ctx, srv.URL+"/missing.ics")
	var fe *service.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
}

func TestHTTPFetcher_RedirectToPrivateAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "http://169.254.169.254/latest/meta-data/", http.StatusFound)
	}))
	defer srv.Close()

	f := service.NewHTTPFetcher(5*time.Second, 1024)

	_, err := f.Fetch(context.Background(), srv.URL+"/cal.ics")
	assert.ErrorIs(t, err, service.ErrURLNotAllowed)
}
