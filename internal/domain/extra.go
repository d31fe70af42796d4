package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultUniteMesure = "unité"

// Extra is a chargeable catalog item of one property.
type Extra struct {
	ID               int32           `json:"id"`
	EtablissementID  int32           `json:"etablissement_id"`
	NomEtablissement string          `json:"nom_etablissement,omitempty"`
	Nom              string          `json:"nom"`
	Description      string          `json:"description"`
	PrixUnitaire     decimal.Decimal `json:"prix_unitaire"`
	UniteMesure      string          `json:"unite_mesure"`
	Actif            bool            `json:"actif"`
}

// Consommation is a persisted extra consumed during a stay. PrixUnitaire is
// the price snapshot taken when the record was created.
type Consommation struct {
	ID           int32           `json:"sejour_extra_id"`
	SejourID     int32           `json:"sejour_id"`
	ExtraID      int32           `json:"id"`
	Nom          string          `json:"nom"`
	PrixUnitaire decimal.Decimal `json:"prix_unitaire"`
	UniteMesure  string          `json:"unite_mesure"`
	Quantite     int32           `json:"quantite"`
	MontantTotal decimal.Decimal `json:"montant_total"`
	DateAjout    time.Time       `json:"date_ajout"`
}

type ConsommationOpType string

const (
	ConsommationOpCreate ConsommationOpType = "create"
	ConsommationOpUpdate ConsommationOpType = "update"
)

// ConsommationOp is one line of a transactional batch save.
type ConsommationOp struct {
	Op            ConsommationOpType `json:"op" validate:"required,oneof=create update"`
	ExtraID       int32              `json:"extra_id,omitempty" validate:"required_if=Op create"`
	SejourExtraID int32              `json:"sejour_extra_id,omitempty" validate:"required_if=Op update"`
	Quantite      int32              `json:"quantite" validate:"gt=0"`
}

// ExtraSummary aggregates consumption of one catalog item.
type ExtraSummary struct {
	ExtraNom           string          `json:"extra_nom"`
	UniteMesure        string          `json:"unite_mesure"`
	PrixUnitaire       decimal.Decimal `json:"prix_unitaire"`
	NombreUtilisations int32           `json:"nombre_utilisations"`
	QuantiteTotale     int64           `json:"quantite_totale"`
	MontantTotal       decimal.Decimal `json:"montant_total"`
}

// LineTotal returns quantite × prix.
func LineTotal(prix decimal.Decimal, quantite int32) decimal.Decimal {
	return prix.Mul(decimal.NewFromInt32(quantite))
}
