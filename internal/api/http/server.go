package http

import (
	"net/http"

	"sejour-pms/internal/service"
	"sejour-pms/internal/storage"

	"github.com/go-playground/validator/v10"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Services groups the business services the REST API exposes.
type Services struct {
	Etablissements service.EtablissementService
	Sejours        service.SejourService
	Extras         service.ExtraService
	Consommations  service.ConsommationService
	Invoices       service.InvoiceService
	Calendars      service.CalendarService
	Newsletters    service.NewsletterService
	Exports        service.ExportService
	Clients        service.ClientService
	Statistics     service.StatisticsService
	Activity       service.ActivityService
}

type Server struct {
	svc      Services
	archive  storage.StorageInterface
	validate *validator.Validate
}

func NewServer(svc Services, archive storage.StorageInterface) *Server {
	return &Server{
		svc:      svc,
		archive:  archive,
		validate: validator.New(),
	}
}

// Router registers every route. Mutating routes are named so the activity
// middleware can record them.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)
	if s.svc.Activity != nil {
		r.Use(s.activityRecorder)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/etablissements", s.listEtablissements).Methods(http.MethodGet)
	api.HandleFunc("/etablissements", s.createEtablissement).Methods(http.MethodPost).Name("etablissement.create")
	api.HandleFunc("/etablissements/{id:[0-9]+}", s.getEtablissement).Methods(http.MethodGet)
	api.HandleFunc("/etablissements/{id:[0-9]+}", s.updateEtablissement).Methods(http.MethodPut).Name("etablissement.update")

	api.HandleFunc("/chambres", s.listChambres).Methods(http.MethodGet)
	api.HandleFunc("/chambres", s.createChambre).Methods(http.MethodPost).Name("chambre.create")
	api.HandleFunc("/chambres/disponibles", s.availableChambres).Methods(http.MethodGet)
	api.HandleFunc("/chambres/{id:[0-9]+}", s.updateChambre).Methods(http.MethodPut).Name("chambre.update")
	api.HandleFunc("/chambres/{id:[0-9]+}", s.deleteChambre).Methods(http.MethodDelete).Name("chambre.delete")

	api.HandleFunc("/sejours", s.listSejours).Methods(http.MethodGet)
	api.HandleFunc("/sejours", s.createSejour).Methods(http.MethodPost).Name("sejour.create")
	api.HandleFunc("/sejours/generer-numero", s.generateNumero).Methods(http.MethodGet)
	api.HandleFunc("/sejours/extras/{id:[0-9]+}", s.updateConsommation).Methods(http.MethodPut).Name("consommation.update")
	api.HandleFunc("/sejours/extras/{id:[0-9]+}", s.deleteConsommation).Methods(http.MethodDelete).Name("consommation.delete")
	api.HandleFunc("/sejours/{id:[0-9]+}", s.getSejour).Methods(http.MethodGet)
	api.HandleFunc("/sejours/{id:[0-9]+}", s.updateSejour).Methods(http.MethodPut).Name("sejour.update")
	api.HandleFunc("/sejours/{id:[0-9]+}", s.deleteSejour).Methods(http.MethodDelete).Name("sejour.delete")
	api.HandleFunc("/sejours/{id:[0-9]+}/close", s.closeSejour).Methods(http.MethodPost).Name("sejour.close")
	api.HandleFunc("/sejours/{id:[0-9]+}/extras", s.listConsommations).Methods(http.MethodGet)
	api.HandleFunc("/sejours/{id:[0-9]+}/extras", s.addConsommation).Methods(http.MethodPost).Name("consommation.create")
	api.HandleFunc("/sejours/{id:[0-9]+}/extras/batch", s.batchConsommations).Methods(http.MethodPost).Name("consommation.batch")
	api.HandleFunc("/sejours/{id:[0-9]+}/facture", s.generateFacture).Methods(http.MethodPost).Name("facture.generate")
	api.HandleFunc("/sejours/{id:[0-9]+}/facture/envoyer", s.sendFacture).Methods(http.MethodPost).Name("facture.send")
	api.HandleFunc("/factures/archive", s.downloadArchivedFacture).Methods(http.MethodGet)

	api.HandleFunc("/extras", s.listExtras).Methods(http.MethodGet)
	api.HandleFunc("/extras", s.createExtra).Methods(http.MethodPost).Name("extra.create")
	api.HandleFunc("/extras/summary/{etablissement_id:[0-9]+}", s.extrasSummary).Methods(http.MethodGet)
	api.HandleFunc("/extras/{id:[0-9]+}", s.getExtra).Methods(http.MethodGet)
	api.HandleFunc("/extras/{id:[0-9]+}", s.updateExtra).Methods(http.MethodPut).Name("extra.update")
	api.HandleFunc("/extras/{id:[0-9]+}", s.deleteExtra).Methods(http.MethodDelete).Name("extra.delete")

	api.HandleFunc("/calendriers", s.listCalendars).Methods(http.MethodGet)
	api.HandleFunc("/calendriers", s.createCalendar).Methods(http.MethodPost).Name("calendrier.create")
	api.HandleFunc("/calendriers/{id:[0-9]+}", s.getCalendar).Methods(http.MethodGet)
	api.HandleFunc("/calendriers/{id:[0-9]+}", s.updateCalendar).Methods(http.MethodPut).Name("calendrier.update")
	api.HandleFunc("/calendriers/{id:[0-9]+}", s.deleteCalendar).Methods(http.MethodDelete).Name("calendrier.delete")
	api.HandleFunc("/calendriers/{id:[0-9]+}/synchroniser", s.syncCalendar).Methods(http.MethodPost).Name("calendrier.sync")
	api.HandleFunc("/calendriers/{id:[0-9]+}/reservations", s.calendarReservations).Methods(http.MethodGet)
	api.HandleFunc("/reservations-ical", s.listReservations).Methods(http.MethodGet)

	api.HandleFunc("/clients", s.listClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/export.xlsx", s.exportClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id:[0-9]+}", s.getClient).Methods(http.MethodGet)

	stats := api.PathPrefix("/statistics").Subrouter()
	stats.HandleFunc("/global", s.globalStatistics).Methods(http.MethodGet)
	stats.HandleFunc("/occupancy", s.occupancyStatistics).Methods(http.MethodGet)
	stats.HandleFunc("/revenue", s.revenueStatistics).Methods(http.MethodGet)
	stats.HandleFunc("/countries", s.rankedStatistics("limit", s.topCountries)).Methods(http.MethodGet)
	stats.HandleFunc("/sejours-by-occupants", s.rankedStatistics("limit", s.sejoursByOccupants)).Methods(http.MethodGet)
	stats.HandleFunc("/sejours-by-rooms", s.rankedStatistics("limit", s.sejoursByRooms)).Methods(http.MethodGet)
	stats.HandleFunc("/monthly-trends", s.rankedStatistics("months", s.monthlyTrends)).Methods(http.MethodGet)

	api.HandleFunc("/newsletters", s.listNewsletters).Methods(http.MethodGet)
	api.HandleFunc("/newsletters", s.sendNewsletter).Methods(http.MethodPost).Name("newsletter.send")

	api.HandleFunc("/activity-logs", s.listActivity).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}

// Handler wraps the router with CORS and panic recovery.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(allowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID", "X-User"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Disposition", "X-Request-ID"}),
	)
	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.PrintRecoveryStack(true),
		gorillaHandlers.RecoveryLogger(recoveryLogger{}),
	)
	return gorillaHandlers.CompressHandler(recovery(cors(s.Router())))
}
