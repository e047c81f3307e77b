package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plushmart/storefront/internal/api"
	"github.com/plushmart/storefront/internal/model"
	"github.com/plushmart/storefront/internal/snapshot"
)

// Cart synchronization. The server owns the cart; the mirror held here
// is provisional. Every mutation ends in a resync that replaces the
// mirror wholesale with the authoritative contents (never a merge), so
// optimistic edits the server never confirmed are discarded. When the
// server is unreachable, mutations degrade to local-only application
// so the cart stays usable.

// AddItem appends an optimistic local line, sends the add to the
// server, and resyncs after the settling delay regardless of the
// immediate outcome. The resync absorbs server-derived fields (backend
// ID, computed totals). Legacy personalization payloads are normalized
// before anything is sent.
func (s *Store) AddItem(ctx context.Context, product model.Product, quantity int, personalization map[string]any) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !s.Authenticated() {
		return ErrAuthenticationRequired
	}

	p, err := model.NormalizePersonalization(personalization)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	line := model.CartItem{
		LocalID:         uuid.New(),
		Product:         product,
		Quantity:        quantity,
		Personalization: p,
	}
	s.mu.Lock()
	s.cart = append(s.cart, line)
	s.mu.Unlock()
	s.persist(ctx)

	addErr := s.backend.AddToCart(ctx, api.AddToCartRequest{
		ProductID:       product.ID,
		Quantity:        quantity,
		Personalization: p,
	})

	s.settle(ctx)
	if err := s.resync(ctx); err != nil {
		s.log.Warn("resync after add failed", "product_id", product.ID, "error", err)
	}

	if addErr != nil {
		return fmt.Errorf("add item: %w", addErr)
	}
	return nil
}

// RemoveItem removes a cart line. A line without a backend ID triggers
// exactly one resync to resolve it; if the server call then fails, the
// line is dropped from the mirror only and no error reaches the caller.
func (s *Store) RemoveItem(ctx context.Context, localID uuid.UUID) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	item, ok := s.findLocal(localID)
	if !ok {
		return ErrCartItemNotFound
	}

	item, localID = s.resolveBackendID(ctx, item, localID)
	if !item.Confirmed() {
		// Still unknown to the server: local-only removal.
		s.removeLocal(ctx, localID)
		return nil
	}

	if err := s.backend.RemoveFromCart(ctx, item.BackendID); err != nil {
		s.log.Warn("server remove failed, removing locally", "backend_id", item.BackendID, "error", err)
		s.removeLocal(ctx, localID)
		return nil
	}

	if err := s.resync(ctx); err != nil {
		s.log.Warn("resync after remove failed", "error", err)
		s.removeLocal(ctx, localID)
	}
	return nil
}

// UpdateQuantity changes a line's quantity; zero or less removes the
// line. On server failure the change is applied to the mirror only.
func (s *Store) UpdateQuantity(ctx context.Context, localID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, localID)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	item, ok := s.findLocal(localID)
	if !ok {
		return ErrCartItemNotFound
	}

	item, localID = s.resolveBackendID(ctx, item, localID)
	if !item.Confirmed() {
		s.setLocalQuantity(ctx, localID, quantity)
		return nil
	}

	if err := s.backend.UpdateCartItem(ctx, item.BackendID, quantity); err != nil {
		s.log.Warn("server update failed, applying locally", "backend_id", item.BackendID, "error", err)
		s.setLocalQuantity(ctx, localID, quantity)
		return nil
	}

	if err := s.resync(ctx); err != nil {
		s.log.Warn("resync after update failed", "error", err)
		s.setLocalQuantity(ctx, localID, quantity)
	}
	return nil
}

// Resync replaces the cart mirror with the server's authoritative cart.
func (s *Store) Resync(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.resync(ctx)
}

// Clear empties the server cart when authenticated and unconditionally
// empties the local mirror and the persisted snapshot. Clearing never
// fails from the caller's point of view.
func (s *Store) Clear(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.Authenticated() {
		if err := s.backend.ClearCart(ctx); err != nil {
			s.log.Warn("server cart clear failed, clearing locally anyway", "error", err)
		}
	}

	s.mu.Lock()
	s.cart = nil
	data := &snapshot.Data{Session: s.session}
	s.mu.Unlock()

	if err := s.snaps.Save(ctx, data); err != nil {
		s.log.Warn("persist cleared snapshot failed, scrubbing", "error", err)
		if err := s.snaps.Clear(ctx); err != nil {
			s.log.Warn("scrub snapshot failed", "error", err)
		}
	}
}

// resync is the single restoration point for server truth. Caller
// holds opMu.
func (s *Store) resync(ctx context.Context) error {
	items, err := s.backend.GetCartItems(ctx)
	if err != nil {
		return fmt.Errorf("resync cart: %w", err)
	}
	s.mu.Lock()
	s.cart = items
	s.mu.Unlock()
	s.persist(ctx)
	return nil
}

// resolveBackendID returns the line carrying a backend ID for the given
// item, running at most one resync to obtain it. Local IDs are minted
// fresh on resync, so after one the line is re-identified by product
// and personalization. Caller holds opMu.
func (s *Store) resolveBackendID(ctx context.Context, item model.CartItem, localID uuid.UUID) (model.CartItem, uuid.UUID) {
	if item.Confirmed() {
		return item, localID
	}

	if err := s.resync(ctx); err != nil {
		s.log.Warn("resync to resolve backend id failed", "error", err)
		return item, localID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, candidate := range s.cart {
		if candidate.Product.ID == item.Product.ID && personalizationEqual(candidate.Personalization, item.Personalization) {
			return candidate, candidate.LocalID
		}
	}
	return item, localID
}

func (s *Store) findLocal(localID uuid.UUID) (model.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.cart {
		if item.LocalID == localID {
			return item, true
		}
	}
	return model.CartItem{}, false
}

func (s *Store) removeLocal(ctx context.Context, localID uuid.UUID) {
	s.mu.Lock()
	kept := s.cart[:0]
	for _, item := range s.cart {
		if item.LocalID != localID {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	s.mu.Unlock()
	s.persist(ctx)
}

func (s *Store) setLocalQuantity(ctx context.Context, localID uuid.UUID, quantity int) {
	s.mu.Lock()
	for i := range s.cart {
		if s.cart[i].LocalID == localID {
			s.cart[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.persist(ctx)
}

// settle waits out the configured delay before a post-mutation resync,
// giving the server time to materialize derived fields.
func (s *Store) settle(ctx context.Context) {
	if s.resyncDelay <= 0 {
		return
	}
	t := time.NewTimer(s.resyncDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func personalizationEqual(a, b *model.Personalization) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Occasion != b.Occasion || a.GiftMessage != b.GiftMessage {
		return false
	}
	if len(a.Colors) != len(b.Colors) || len(a.Accessories) != len(b.Accessories) {
		return false
	}
	for i := range a.Colors {
		if a.Colors[i] != b.Colors[i] {
			return false
		}
	}
	for i := range a.Accessories {
		if a.Accessories[i].Name != b.Accessories[i].Name || !a.Accessories[i].Price.Equal(b.Accessories[i].Price) {
			return false
		}
	}
	return true
}
