package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SejourStatus string

const (
	SejourStatusActive     SejourStatus = "active"
	SejourStatusClosed     SejourStatus = "closed"
	SejourStatusTerminated SejourStatus = "terminated"
	SejourStatusCancelled  SejourStatus = "cancelled"
)

// Sejour is a guest stay at one property. Contact fields are joined from the
// principal personne and are read-only.
type Sejour struct {
	ID                 int32           `json:"id"`
	NumeroReservation  string          `json:"numero_reservation"`
	EtablissementID    int32           `json:"etablissement_id"`
	NomEtablissement   string          `json:"nom_etablissement,omitempty"`
	DateArrivee        string          `json:"date_arrivee"`
	DateDepart         string          `json:"date_depart"`
	NombreJours        int32           `json:"nombre_jours"`
	FactureHebergement decimal.Decimal `json:"facture_hebergement"`
	ChargePlateforme   decimal.Decimal `json:"charge_plateforme"`
	TaxeSejour         decimal.Decimal `json:"taxe_sejour"`
	Statut             SejourStatus    `json:"statut"`
	ClosedAt           *time.Time      `json:"closed_at,omitempty"`
	ClosedBy           string          `json:"closed_by,omitempty"`
	Notes              string          `json:"notes"`
	ContactNom         string          `json:"contact_nom,omitempty"`
	ContactPrenom      string          `json:"contact_prenom,omitempty"`
	ContactEmail       string          `json:"contact_email,omitempty"`
	ContactTelephone   string          `json:"contact_telephone,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsClosed reports whether the stay no longer accepts consumption changes.
func (s *Sejour) IsClosed() bool {
	return s.Statut == SejourStatusClosed || s.Statut == SejourStatusTerminated || s.ClosedAt != nil
}

type Personne struct {
	ID                  int32  `json:"id"`
	SejourID            int32  `json:"sejour_id"`
	Nom                 string `json:"nom" validate:"required"`
	Prenom              string `json:"prenom"`
	Email               string `json:"email" validate:"omitempty,email"`
	Telephone           string `json:"telephone"`
	Pays                string `json:"pays"`
	ChambreID           *int32 `json:"chambre_id,omitempty"`
	EstContactPrincipal bool   `json:"est_contact_principal"`
}

// SejourDetail is the payload of GET /api/sejours/{id}.
type SejourDetail struct {
	Sejour    *Sejour        `json:"sejour"`
	Personnes []Personne     `json:"personnes"`
	Chambres  []Chambre      `json:"chambres"`
	Extras    []Consommation `json:"extras"`
}

// Client is a personne listed with the stay it belongs to, as exported to
// spreadsheets.
type Client struct {
	Personne
	NumeroReservation string `json:"numero_reservation"`
	NomEtablissement  string `json:"nom_etablissement"`
	DateArrivee       string `json:"date_arrivee"`
	DateDepart        string `json:"date_depart"`
}

// SejourFilter narrows stay listings. Zero values mean no filter.
type SejourFilter struct {
	EtablissementID int32
	Statut          SejourStatus
	Search          string
}
