package pos

import (
	"strings"

	"sejour-pms/internal/domain"
)

// LineView is a cart line ready for display, with the state of its controls.
type LineView struct {
	Index        int
	Nom          string
	UniteMesure  string
	Quantite     int32
	PrixUnitaire string
	Total        string
	Saved        bool
	Changed      bool
	CanIncrement bool
	CanDecrement bool
	CanRemove    bool
}

// CartView is what a front end needs to draw the selected stay.
type CartView struct {
	SejourID           int32
	Numero             string
	Client             string
	Closed             bool
	Lines              []LineView
	Subtotal           string
	Total              string
	PendingChanges     bool
	CanAddExtras       bool
	CanSave            bool
	CanClose           bool
	CanGenerateInvoice bool
}

// View builds the view model of the current state. A closed stay has every
// mutating control disabled and only the invoice action enabled.
func (s *Session) View() CartView {
	v := CartView{
		Subtotal: s.cart.Subtotal().StringFixed(2),
		Total:    s.cart.Total().StringFixed(2),
	}
	if s.sejour == nil {
		return v
	}

	v.SejourID = s.sejour.ID
	v.Numero = s.sejour.NumeroReservation
	v.Client = strings.TrimSpace(s.sejour.ContactPrenom + " " + s.sejour.ContactNom)
	v.Closed = s.sejour.IsClosed()
	v.PendingChanges = s.cart.HasPendingChanges()

	open := !v.Closed
	v.CanAddExtras = open
	v.CanSave = open && v.PendingChanges
	v.CanClose = open && !v.PendingChanges
	v.CanGenerateInvoice = v.Closed

	for i, l := range s.cart.lines {
		v.Lines = append(v.Lines, LineView{
			Index:        i,
			Nom:          l.Nom,
			UniteMesure:  l.UniteMesure,
			Quantite:     l.Quantite,
			PrixUnitaire: l.PrixUnitaire.StringFixed(2),
			Total:        l.Total().StringFixed(2),
			Saved:        l.Saved,
			Changed:      l.Changed(),
			CanIncrement: open,
			CanDecrement: open,
			CanRemove:    open,
		})
	}
	return v
}

// ExtraView is a catalog entry for display.
type ExtraView struct {
	ID           int32
	Nom          string
	PrixUnitaire string
	UniteMesure  string
}

// Catalog returns the loaded extras for display.
func (s *Session) Catalog() []ExtraView {
	out := make([]ExtraView, 0, len(s.extras))
	for _, x := range s.extras {
		unite := x.UniteMesure
		if unite == "" {
			unite = domain.DefaultUniteMesure
		}
		out = append(out, ExtraView{
			ID:           x.ID,
			Nom:          x.Nom,
			PrixUnitaire: x.PrixUnitaire.StringFixed(2),
			UniteMesure:  unite,
		})
	}
	return out
}
