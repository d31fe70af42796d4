package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sejour-pms/internal/breaker"
	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
	"sejour-pms/internal/utils"

	ics "github.com/arran4/golang-ical"
	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
)

var blockedHosts = map[string]bool{
	"localhost":                true,
	"localhost.localdomain":    true,
	"metadata.google.internal": true,
}

// ValidateCalendarURL rejects URLs that would make the server fetch from
// itself or from a private network.
func ValidateCalendarURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrURLNotAllowed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrURLNotAllowed, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrURLNotAllowed)
	}
	if blockedHosts[host] {
		return fmt.Errorf("%w: host %s", ErrURLNotAllowed, host)
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsUnspecified() || ip.IsPrivate() ||
			ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return fmt.Errorf("%w: address %s", ErrURLNotAllowed, host)
		}
	}
	return nil
}

// ICalFetcher downloads a remote iCal feed.
type ICalFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchError is a non-2xx answer of a calendar host.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("calendar host answered %d", e.StatusCode)
}

func (e *FetchError) HTTPStatus() int {
	return e.StatusCode
}

type httpFetcher struct {
	client   *http.Client
	cb       *gobreaker.CircuitBreaker
	maxBytes int64
}

// NewHTTPFetcher returns a fetcher that checks every redirect target with
// ValidateCalendarURL.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) ICalFetcher {
	return &httpFetcher{
		client:   &http.Client{Timeout: timeout, CheckRedirect: checkRedirect},
		cb:       breaker.New("ical-fetch"),
		maxBytes: maxBytes,
	}
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	return ValidateCalendarURL(req.URL.String())
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	logger.ExternalServiceCall("iCal", "Fetch", "url", rawURL)
	out, err := f.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/calendar")

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &FetchError{StatusCode: resp.StatusCode}
		}
		return io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	})
	logger.ExternalServiceResult("iCal", "Fetch", err, "url", rawURL)
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

type calendarService struct {
	calRepo  repository.CalendarRepository
	etabRepo repository.EtablissementRepository
	fetcher  ICalFetcher
	validate *validator.Validate
}

func NewCalendarService(calRepo repository.CalendarRepository, etabRepo repository.EtablissementRepository, fetcher ICalFetcher) CalendarService {
	return &calendarService{
		calRepo:  calRepo,
		etabRepo: etabRepo,
		fetcher:  fetcher,
		validate: validator.New(),
	}
}

func (s *calendarService) ListCalendars(ctx context.Context, etablissementID int32) ([]domain.CalendrierIcal, error) {
	list, err := s.calRepo.List(ctx, etablissementID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.CalendrierIcal{}
	}
	return list, nil
}

func (s *calendarService) GetCalendar(ctx context.Context, id int32) (*domain.CalendrierIcal, error) {
	c, err := s.calRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "calendrier", id)
	}
	return c, nil
}

func (s *calendarService) check(ctx context.Context, c *domain.CalendrierIcal) error {
	if err := s.validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := ValidateCalendarURL(c.IcalURL); err != nil {
		return err
	}
	if c.Plateforme == "" {
		c.Plateforme = "autre"
	}
	if _, err := s.etabRepo.GetByID(ctx, c.EtablissementID); err != nil {
		return notFound(err, "etablissement", c.EtablissementID)
	}
	return nil
}

func (s *calendarService) CreateCalendar(ctx context.Context, c *domain.CalendrierIcal) error {
	if err := s.check(ctx, c); err != nil {
		return err
	}
	return s.calRepo.Create(ctx, c)
}

func (s *calendarService) UpdateCalendar(ctx context.Context, c *domain.CalendrierIcal) error {
	if err := s.check(ctx, c); err != nil {
		return err
	}
	if err := s.calRepo.Update(ctx, c); err != nil {
		return notFound(err, "calendrier", c.ID)
	}
	return nil
}

func (s *calendarService) DeleteCalendar(ctx context.Context, id int32) error {
	if err := s.calRepo.Delete(ctx, id); err != nil {
		return notFound(err, "calendrier", id)
	}
	return nil
}

// SyncCalendar imports the events of the calendar's feed. On fetch or parse
// failure the calendar is marked in error and the returned error wraps
// ErrSyncFailed; the result is still populated.
func (s *calendarService) SyncCalendar(ctx context.Context, id int32) (*domain.SyncResult, error) {
	logger.EnterMethod("calendarService.SyncCalendar", "calendrier_id", id)

	cal, err := s.calRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "calendrier", id)
	}
	if err := ValidateCalendarURL(cal.IcalURL); err != nil {
		return &domain.SyncResult{Success: false, Message: "URL non autorisée (sécurité SSRF)"}, err
	}

	fail := func(prefix string, cause error) (*domain.SyncResult, error) {
		msg := fmt.Sprintf("%s: %v", prefix, cause)
		if err := s.calRepo.UpdateSyncStatus(ctx, id, domain.SyncStatusError, msg); err != nil {
			logger.Error("Failed to record sync status", "calendrier_id", id, "error", err)
		}
		logger.ExitMethodWithError("calendarService.SyncCalendar", cause, "calendrier_id", id)
		return &domain.SyncResult{Success: false, Message: msg}, fmt.Errorf("%w: %s", ErrSyncFailed, msg)
	}

	body, err := s.fetcher.Fetch(ctx, cal.IcalURL)
	if err != nil {
		return fail("Erreur de connexion", err)
	}

	reservations, eventErrors, err := ParseReservations(bytes.NewReader(body))
	if err != nil {
		return fail("Erreur de parsing", err)
	}

	count, err := s.calRepo.UpsertReservations(ctx, id, reservations)
	if err != nil {
		return fail("Erreur d'enregistrement", err)
	}

	status := domain.SyncStatusSuccess
	if count == 0 {
		status = domain.SyncStatusEmpty
	}
	if err := s.calRepo.UpdateSyncStatus(ctx, id, status, strings.Join(eventErrors, "\n")); err != nil {
		return nil, err
	}

	logger.ExitMethod("calendarService.SyncCalendar", "calendrier_id", id, "count", count, "errors", len(eventErrors))
	return &domain.SyncResult{
		Success: true,
		Message: fmt.Sprintf("%d séjour(s) synchronisée(s)", count),
		Count:   count,
		Errors:  eventErrors,
	}, nil
}

// SyncAll synchronizes every active calendar and returns how many succeeded.
func (s *calendarService) SyncAll(ctx context.Context) (int, error) {
	calendars, err := s.calRepo.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	ok := 0
	for _, c := range calendars {
		if ctx.Err() != nil {
			return ok, ctx.Err()
		}
		res, err := s.SyncCalendar(ctx, c.ID)
		if err != nil {
			logger.Warn("Calendar sync failed", "calendrier_id", c.ID, "nom", c.Nom, "error", err)
			continue
		}
		logger.Info("Calendar synchronized", "calendrier_id", c.ID, "count", res.Count)
		ok++
	}
	return ok, nil
}

func (s *calendarService) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationIcal, error) {
	for _, d := range []string{filter.DateDebut, filter.DateFin} {
		if d == "" {
			continue
		}
		if _, err := utils.ParseDate(d); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	list, err := s.calRepo.ListReservations(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.ReservationIcal{}
	}
	return list, nil
}

func eventDate(ev *ics.VEvent, start bool) (time.Time, error) {
	if start {
		if t, err := ev.GetAllDayStartAt(); err == nil {
			return t, nil
		}
		return ev.GetStartAt()
	}
	if t, err := ev.GetAllDayEndAt(); err == nil {
		return t, nil
	}
	return ev.GetEndAt()
}

func propValue(ev *ics.VEvent, p ics.ComponentProperty) string {
	if prop := ev.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

// ParseReservations reads VEVENTs from an iCal feed. Events without dates
// are skipped; events that cannot be read are reported in the returned
// messages and do not abort the import.
func ParseReservations(r io.Reader) ([]domain.ReservationIcal, []string, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, nil, err
	}

	var (
		out      []domain.ReservationIcal
		problems []string
	)
	for _, ev := range cal.Events() {
		if ev.GetProperty(ics.ComponentPropertyDtStart) == nil || ev.GetProperty(ics.ComponentPropertyDtEnd) == nil {
			continue
		}
		uid := ev.Id()
		if uid == "" {
			problems = append(problems, "Erreur événement: UID manquant")
			continue
		}
		debut, err := eventDate(ev, true)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Erreur événement %s: %v", uid, err))
			continue
		}
		fin, err := eventDate(ev, false)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Erreur événement %s: %v", uid, err))
			continue
		}
		titre := propValue(ev, ics.ComponentPropertySummary)
		if titre == "" {
			titre = "Séjour"
		}
		out = append(out, domain.ReservationIcal{
			UIDIcal:     uid,
			Titre:       titre,
			DateDebut:   debut.Format(utils.DateLayout),
			DateFin:     fin.Format(utils.DateLayout),
			Description: propValue(ev, ics.ComponentPropertyDescription),
		})
	}
	return out, problems, nil
}
