package domain

import "github.com/shopspring/decimal"

const (
	DefaultDevise                  = "MAD"
	DefaultFormatNumeroReservation = "RES-{YYYY}{MM}{DD}-{NUM}"
)

type Etablissement struct {
	ID                      int32           `json:"id"`
	NomEtablissement        string          `json:"nom_etablissement"`
	NumeroIdentification    string          `json:"numero_identification"`
	Pays                    string          `json:"pays"`
	Ville                   string          `json:"ville"`
	Adresse                 string          `json:"adresse"`
	Telephone               string          `json:"telephone"`
	Email                   string          `json:"email"`
	Devise                  string          `json:"devise"`
	TauxTaxeSejour          decimal.Decimal `json:"taux_taxe_sejour"`
	FormatNumeroReservation string          `json:"format_numero_reservation"`
	ProchainNumeroSequence  int32           `json:"prochain_numero_sequence"`
	Actif                   bool            `json:"actif"`
	CreatedAt               string          `json:"created_at"`
}

type ChambreStatus string

const (
	ChambreStatusDisponible  ChambreStatus = "disponible"
	ChambreStatusOccupee     ChambreStatus = "occupee"
	ChambreStatusMaintenance ChambreStatus = "maintenance"
)

type Chambre struct {
	ID              int32           `json:"id"`
	EtablissementID int32           `json:"etablissement_id"`
	Nom             string          `json:"nom"`
	Description     string          `json:"description"`
	Capacite        int32           `json:"capacite"`
	PrixParNuit     decimal.Decimal `json:"prix_par_nuit"`
	Statut          ChambreStatus   `json:"statut"`
}
