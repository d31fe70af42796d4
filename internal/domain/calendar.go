package domain

import "time"

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "succès"
	SyncStatusEmpty   SyncStatus = "aucune_sejour"
	SyncStatusError   SyncStatus = "erreur"
)

type CalendrierIcal struct {
	ID                      int32      `json:"id"`
	EtablissementID         int32      `json:"etablissement_id" validate:"required"`
	NomEtablissement        string     `json:"nom_etablissement,omitempty"`
	Nom                     string     `json:"nom" validate:"required"`
	Plateforme              string     `json:"plateforme"`
	IcalURL                 string     `json:"ical_url" validate:"required,url"`
	Actif                   bool       `json:"actif"`
	DerniereSynchronisation *time.Time `json:"derniere_synchronisation,omitempty"`
	StatutDerniereSynchro   SyncStatus `json:"statut_derniere_synchro,omitempty"`
	MessageErreur           string     `json:"message_erreur,omitempty"`
}

// ReservationIcal is an event imported from an external calendar, keyed by
// its iCal UID.
type ReservationIcal struct {
	ID            int32  `json:"id"`
	CalendrierID  int32  `json:"calendrier_id"`
	CalendrierNom string `json:"calendrier_nom,omitempty"`
	Plateforme    string `json:"plateforme,omitempty"`
	UIDIcal       string `json:"uid_ical"`
	Titre         string `json:"titre"`
	DateDebut     string `json:"date_debut"`
	DateFin       string `json:"date_fin"`
	Description   string `json:"description"`
}

type SyncResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Errors  []string `json:"errors,omitempty"`
}

type ReservationFilter struct {
	CalendrierID    int32
	EtablissementID int32
	DateDebut       string
	DateFin         string
}
