package domain

import "github.com/shopspring/decimal"

// StatsFilter scopes dashboard figures. EtablissementID 0 means every
// property; dates are YYYY-MM-DD on arrival and departure.
type StatsFilter struct {
	EtablissementID int32
	DateDebut       string
	DateFin         string
}

type GlobalStats struct {
	TotalSejours        int64 `json:"total_sejours"`
	TotalClients        int64 `json:"total_clients"`
	TotalEtablissements int64 `json:"total_etablissements"`
	TotalChambres       int64 `json:"total_chambres"`
}

// OccupancyStats counts room-nights of the stays fully inside the period.
type OccupancyStats struct {
	TotalChambres    int64           `json:"total_chambres"`
	ChambresOccupees int64           `json:"chambres_occupees"`
	TotalNuits       int64           `json:"total_nuits"`
	TauxOccupation   decimal.Decimal `json:"taux_occupation"`
	DateDebut        string          `json:"date_debut"`
	DateFin          string          `json:"date_fin"`
}

type RevenueStats struct {
	TotalHebergement decimal.Decimal `json:"total_hebergement"`
	TotalExtras      decimal.Decimal `json:"total_extras"`
	TotalCharges     decimal.Decimal `json:"total_charges"`
	TotalTaxes       decimal.Decimal `json:"total_taxes"`
	TotalRevenu      decimal.Decimal `json:"total_revenu"`
	DateDebut        string          `json:"date_debut"`
	DateFin          string          `json:"date_fin"`
}

type CountryStat struct {
	Pays            string `json:"pays"`
	NombreVisiteurs int64  `json:"nombre_visiteurs"`
	NombreSejours   int64  `json:"nombre_sejours"`
}

// SejourRanking is a stay with the figure it was ranked on (occupants or
// rooms).
type SejourRanking struct {
	ID                int32  `json:"id"`
	NumeroReservation string `json:"numero_reservation"`
	DateArrivee       string `json:"date_arrivee"`
	DateDepart        string `json:"date_depart"`
	NomEtablissement  string `json:"nom_etablissement"`
	Nombre            int64  `json:"nombre"`
}

type MonthlyTrend struct {
	Mois          string          `json:"mois"`
	NombreSejours int64           `json:"nombre_sejours"`
	Revenu        decimal.Decimal `json:"revenu"`
}
