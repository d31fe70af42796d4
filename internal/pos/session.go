// Package pos is the point-of-sale engine: it selects a stay, keeps its cart
// of extras in step with the server, and gates closing and invoicing.
package pos

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer func(prompt string) bool

// Result tells what a cart action did.
type Result int

const (
	Applied Result = iota
	Removed
	Cancelled
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Removed:
		return "removed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Session owns the selected stay and its cart. It is meant for a single
// operator and is not safe for concurrent use, except that a Save or
// CloseStay started while another one runs fails with ErrRequestInFlight.
type Session struct {
	api     API
	confirm Confirmer
	now     func() time.Time

	etablissements []domain.Etablissement
	stays          []domain.Sejour
	extras         []domain.Extra

	sejour    *domain.Sejour
	personnes []domain.Personne
	cart      *Cart

	inFlight atomic.Bool
}

// NewSession returns a session without a selected stay. A nil confirm
// approves everything.
func NewSession(api API, confirm Confirmer) *Session {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &Session{
		api:     api,
		confirm: confirm,
		now:     time.Now,
		cart:    NewCart(nil),
	}
}

// Sejour returns the selected stay, or nil.
func (s *Session) Sejour() *domain.Sejour {
	return s.sejour
}

func (s *Session) Personnes() []domain.Personne {
	return s.personnes
}

func (s *Session) Cart() *Cart {
	return s.cart
}

func (s *Session) Extras() []domain.Extra {
	return s.extras
}

func (s *Session) Etablissements() []domain.Etablissement {
	return s.etablissements
}

// Stays returns the active stays of the last LoadActiveStays.
func (s *Session) Stays() []domain.Sejour {
	return s.stays
}

// LoadActiveStays fetches the stays and keeps the active ones.
func (s *Session) LoadActiveStays(ctx context.Context) ([]domain.Sejour, error) {
	all, err := s.api.ListSejours(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stays: %w", err)
	}
	active := make([]domain.Sejour, 0, len(all))
	for _, st := range all {
		if st.Statut == domain.SejourStatusActive {
			active = append(active, st)
		}
	}
	s.stays = active
	return active, nil
}

// Search filters the loaded stays on reservation number and contact name,
// ignoring case. An empty term matches everything.
func (s *Session) Search(term string) []domain.Sejour {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.stays
	}
	var out []domain.Sejour
	for _, st := range s.stays {
		haystack := strings.ToLower(st.NumeroReservation + " " + st.ContactNom + " " + st.ContactPrenom)
		if strings.Contains(haystack, term) {
			out = append(out, st)
		}
	}
	return out
}

// SelectStay loads the stay, its consumption and its property's catalog,
// then replaces the current stay and cart with them. Nothing changes when
// any of the calls fails.
func (s *Session) SelectStay(ctx context.Context, id int32) error {
	logger.EnterMethod("Session.SelectStay", "sejour_id", id)

	detail, err := s.api.GetSejour(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("Session.SelectStay", err, "sejour_id", id)
		return fmt.Errorf("failed to load stay %d: %w", id, err)
	}
	consos := detail.Extras
	if consos == nil {
		if consos, err = s.api.ListConsommations(ctx, id); err != nil {
			logger.ExitMethodWithError("Session.SelectStay", err, "sejour_id", id)
			return fmt.Errorf("failed to load consumption of stay %d: %w", id, err)
		}
	}
	extras, err := s.api.ListExtras(ctx, detail.Sejour.EtablissementID, true)
	if err != nil {
		logger.ExitMethodWithError("Session.SelectStay", err, "sejour_id", id)
		return fmt.Errorf("failed to load extras: %w", err)
	}

	s.sejour = detail.Sejour
	s.personnes = detail.Personnes
	s.cart = NewCart(consos)
	s.extras = extras

	logger.ExitMethod("Session.SelectStay", "sejour_id", id, "lines", s.cart.Len(), "extras", len(extras))
	return nil
}

func (s *Session) LoadEtablissements(ctx context.Context) ([]domain.Etablissement, error) {
	list, err := s.api.ListEtablissements(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load etablissements: %w", err)
	}
	s.etablissements = list
	return list, nil
}

// LoadExtras replaces the catalog with the active extras of a property.
func (s *Session) LoadExtras(ctx context.Context, etablissementID int32) ([]domain.Extra, error) {
	list, err := s.api.ListExtras(ctx, etablissementID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load extras: %w", err)
	}
	s.extras = list
	return list, nil
}

// editable fails when the cart cannot be changed.
func (s *Session) editable() error {
	if s.sejour == nil {
		return ErrNoStaySelected
	}
	if s.sejour.IsClosed() {
		return ErrStayClosed
	}
	return nil
}

// AddToCart adds one unit of a catalog extra. It never calls the server.
func (s *Session) AddToCart(extraID int32) error {
	if err := s.editable(); err != nil {
		return err
	}
	for _, x := range s.extras {
		if x.ID == extraID {
			s.cart.Add(x)
			return nil
		}
	}
	return fmt.Errorf("extra %d: %w", extraID, ErrUnknownExtra)
}

// UpdateQuantity changes the quantity of a line by delta. A line that
// reaches zero is removed: an unsaved one at once, a saved one only after
// confirmation and a successful DELETE. When the DELETE is refused or fails
// the line keeps its previous quantity. A result above MaxInt32 is refused
// with ErrInvalidQuantity.
func (s *Session) UpdateQuantity(ctx context.Context, index int, delta int32) (Result, error) {
	if err := s.editable(); err != nil {
		return Cancelled, err
	}
	line, err := s.cart.Line(index)
	if err != nil {
		return Cancelled, err
	}

	q := int64(line.Quantite) + int64(delta)
	if q > math.MaxInt32 {
		return Cancelled, fmt.Errorf("%s: %w", line.Nom, ErrInvalidQuantity)
	}
	if q > 0 {
		s.cart.setQuantity(index, int32(q))
		return Applied, nil
	}
	if !line.Saved {
		s.cart.remove(index)
		return Removed, nil
	}
	return s.deleteSaved(ctx, index, line)
}

// RemoveFromCart removes a line whatever its quantity, with the same rules
// as a quantity reaching zero.
func (s *Session) RemoveFromCart(ctx context.Context, index int) (Result, error) {
	if err := s.editable(); err != nil {
		return Cancelled, err
	}
	line, err := s.cart.Line(index)
	if err != nil {
		return Cancelled, err
	}
	if !line.Saved {
		s.cart.remove(index)
		return Removed, nil
	}
	return s.deleteSaved(ctx, index, line)
}

func (s *Session) deleteSaved(ctx context.Context, index int, line LineItem) (Result, error) {
	if !s.confirm(fmt.Sprintf("Retirer %s du séjour ?", line.Nom)) {
		return Cancelled, nil
	}
	if err := s.api.DeleteConsommation(ctx, line.SejourExtraID); err != nil {
		logger.Warn("Failed to delete consumption line", "sejour_extra_id", line.SejourExtraID, "error", err)
		return Cancelled, fmt.Errorf("failed to remove %s: %w", line.Nom, err)
	}
	s.cart.remove(index)
	logger.Info("Consumption line deleted", "sejour_id", s.sejour.ID, "sejour_extra_id", line.SejourExtraID)
	return Removed, nil
}

// ClearCart drops the unsaved lines after confirmation. Saved lines are
// server state and stay.
func (s *Session) ClearCart() (Result, error) {
	if err := s.editable(); err != nil {
		return Cancelled, err
	}
	if !s.confirm("Vider le panier ?") {
		return Cancelled, nil
	}
	if s.cart.dropUnsaved() == 0 {
		return Applied, nil
	}
	return Removed, nil
}

// acquire takes the in-flight slot for a Save or CloseStay.
func (s *Session) acquire() (func(), error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRequestInFlight
	}
	return func() { s.inFlight.Store(false) }, nil
}

// Save sends every pending line in one transactional batch and returns how
// many operations were applied. The cart is resynchronized with the server
// afterwards: on success it becomes the server's list; on failure the
// server's list is reloaded and the local pending edits are replayed on it.
func (s *Session) Save(ctx context.Context) (int, error) {
	if err := s.editable(); err != nil {
		return 0, err
	}
	release, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	ops := s.cart.Operations()
	if len(ops) == 0 {
		return 0, nil
	}
	sejourID := s.sejour.ID
	logger.EnterMethod("Session.Save", "sejour_id", sejourID, "ops", len(ops))

	saved, err := s.api.ApplyBatch(ctx, sejourID, ops)
	if err != nil {
		logger.ExitMethodWithError("Session.Save", err, "sejour_id", sejourID)
		if list, rerr := s.api.ListConsommations(ctx, sejourID); rerr != nil {
			logger.Warn("Failed to reload consumption after failed save", "sejour_id", sejourID, "error", rerr)
		} else {
			s.cart = s.cart.rebase(list)
		}
		return 0, fmt.Errorf("failed to save cart: %w", err)
	}

	s.cart = NewCart(saved)
	logger.ExitMethod("Session.Save", "sejour_id", sejourID, "lines", s.cart.Len())
	return len(ops), nil
}

// CloseStay closes the selected stay. It refuses while the cart has pending
// changes. On success the local stay is marked closed without reloading it.
func (s *Session) CloseStay(ctx context.Context) (Result, error) {
	if err := s.editable(); err != nil {
		return Cancelled, err
	}
	if s.cart.HasPendingChanges() {
		return Cancelled, ErrPendingChanges
	}
	release, err := s.acquire()
	if err != nil {
		return Cancelled, err
	}
	defer release()

	if !s.confirm(fmt.Sprintf("Clôturer le séjour %s ? Cette action est irréversible.", s.sejour.NumeroReservation)) {
		return Cancelled, nil
	}
	if err := s.api.CloseSejour(ctx, s.sejour.ID); err != nil {
		return Cancelled, fmt.Errorf("failed to close stay: %w", err)
	}

	closedAt := s.now()
	s.sejour.Statut = domain.SejourStatusClosed
	s.sejour.ClosedAt = &closedAt
	logger.Info("Stay closed", "sejour_id", s.sejour.ID, "numero", s.sejour.NumeroReservation)
	return Applied, nil
}

func (s *Session) closedSejour() error {
	if s.sejour == nil {
		return ErrNoStaySelected
	}
	if !s.sejour.IsClosed() {
		return ErrStayNotClosed
	}
	return nil
}

// GenerateInvoice downloads the PDF invoice of the closed stay.
func (s *Session) GenerateInvoice(ctx context.Context) (*Invoice, error) {
	if err := s.closedSejour(); err != nil {
		return nil, err
	}
	inv, err := s.api.GenerateInvoice(ctx, s.sejour.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice: %w", err)
	}
	return inv, nil
}

// SendInvoice mails the invoice of the closed stay; an empty email means the
// principal contact. It returns the recipient.
func (s *Session) SendInvoice(ctx context.Context, email string) (string, error) {
	if err := s.closedSejour(); err != nil {
		return "", err
	}
	to, err := s.api.SendInvoice(ctx, s.sejour.ID, email)
	if err != nil {
		return "", fmt.Errorf("failed to send invoice: %w", err)
	}
	return to, nil
}
