package pos

import (
	"sejour-pms/internal/domain"

	"github.com/shopspring/decimal"
)

// LineItem is one cart line. Saved lines mirror a consumption record of the
// server and carry its SejourExtraID; unsaved lines exist only locally until
// the next save.
type LineItem struct {
	ExtraID       int32
	Nom           string
	PrixUnitaire  decimal.Decimal
	UniteMesure   string
	Quantite      int32
	Saved         bool
	SejourExtraID int32

	// quantity known to the server, for saved lines
	savedQuantite int32
}

// Total is Quantite × PrixUnitaire.
func (l LineItem) Total() decimal.Decimal {
	return domain.LineTotal(l.PrixUnitaire, l.Quantite)
}

// Changed reports whether a saved line has a quantity the server does not
// know yet.
func (l LineItem) Changed() bool {
	return l.Saved && l.Quantite != l.savedQuantite
}

// Cart holds the lines of the selected stay. Amounts are never stored: every
// total is computed from the current lines when asked.
type Cart struct {
	lines []LineItem
}

// NewCart builds a cart from the stay's recorded consumption, all lines saved.
func NewCart(saved []domain.Consommation) *Cart {
	c := &Cart{lines: make([]LineItem, 0, len(saved))}
	for _, x := range saved {
		c.lines = append(c.lines, LineItem{
			ExtraID:       x.ExtraID,
			Nom:           x.Nom,
			PrixUnitaire:  x.PrixUnitaire,
			UniteMesure:   x.UniteMesure,
			Quantite:      x.Quantite,
			Saved:         true,
			SejourExtraID: x.ID,
			savedQuantite: x.Quantite,
		})
	}
	return c
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the lines.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(i int) (LineItem, error) {
	if i < 0 || i >= len(c.lines) {
		return LineItem{}, ErrInvalidIndex
	}
	return c.lines[i], nil
}

// Add increments the unsaved line of the extra, or appends one with
// quantity 1. The unit price is the catalog price at this moment.
func (c *Cart) Add(extra domain.Extra) {
	for i := range c.lines {
		if !c.lines[i].Saved && c.lines[i].ExtraID == extra.ID {
			c.lines[i].Quantite++
			return
		}
	}
	unite := extra.UniteMesure
	if unite == "" {
		unite = domain.DefaultUniteMesure
	}
	c.lines = append(c.lines, LineItem{
		ExtraID:      extra.ID,
		Nom:          extra.Nom,
		PrixUnitaire: extra.PrixUnitaire,
		UniteMesure:  unite,
		Quantite:     1,
	})
}

func (c *Cart) setQuantity(i int, q int32) {
	c.lines[i].Quantite = q
}

func (c *Cart) remove(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Subtotal is the sum of quantity × unit price over every line.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Total equals Subtotal: stay-level charges are billed on the invoice, not in
// the cart.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal()
}

// HasPendingChanges reports whether any line is unsaved or changed.
func (c *Cart) HasPendingChanges() bool {
	for _, l := range c.lines {
		if !l.Saved || l.Changed() {
			return true
		}
	}
	return false
}

// Operations lists what a save must send: a create per unsaved line and an
// update per changed saved line.
func (c *Cart) Operations() []domain.ConsommationOp {
	var ops []domain.ConsommationOp
	for _, l := range c.lines {
		switch {
		case !l.Saved:
			ops = append(ops, domain.ConsommationOp{
				Op:       domain.ConsommationOpCreate,
				ExtraID:  l.ExtraID,
				Quantite: l.Quantite,
			})
		case l.Changed():
			ops = append(ops, domain.ConsommationOp{
				Op:            domain.ConsommationOpUpdate,
				SejourExtraID: l.SejourExtraID,
				Quantite:      l.Quantite,
			})
		}
	}
	return ops
}

// dropUnsaved removes every unsaved line and returns how many went.
func (c *Cart) dropUnsaved() int {
	kept := c.lines[:0]
	for _, l := range c.lines {
		if l.Saved {
			kept = append(kept, l)
		}
	}
	n := len(c.lines) - len(kept)
	c.lines = kept
	return n
}

// rebase rebuilds the cart on the server's consumption list and replays the
// local pending edits on top of it: unsaved lines are kept and quantity
// changes are reapplied to lines that still exist.
func (c *Cart) rebase(saved []domain.Consommation) *Cart {
	next := NewCart(saved)
	pending := make(map[int32]int32)
	for _, l := range c.lines {
		if l.Changed() {
			pending[l.SejourExtraID] = l.Quantite
		}
	}
	for i := range next.lines {
		if q, ok := pending[next.lines[i].SejourExtraID]; ok {
			next.lines[i].Quantite = q
		}
	}
	for _, l := range c.lines {
		if !l.Saved {
			next.lines = append(next.lines, l)
		}
	}
	return next
}
