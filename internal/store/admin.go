package store

import (
	"context"
	"errors"
	"io"

	"github.com/plushmart/storefront/internal/model"
)

var ErrPermissionDenied = errors.New("permission denied")

// Admin console operations. These pass through to the backend and keep
// the catalog cache coherent so the grid reflects edits without a full
// refresh. Role checks here are a UX guard; the server enforces its own.

func (s *Store) requireRole(roles ...model.Role) error {
	session := s.Session()
	if session == nil {
		return ErrAuthenticationRequired
	}
	for _, role := range roles {
		if session.User.Role == role {
			return nil
		}
	}
	return ErrPermissionDenied
}

func (s *Store) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if err := s.requireRole(model.RoleAdmin); err != nil {
		return nil, err
	}
	created, err := s.backend.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.products = append(s.products, *created)
	s.total++
	s.mu.Unlock()
	return created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	if err := s.requireRole(model.RoleAdmin); err != nil {
		return nil, err
	}
	updated, err := s.backend.UpdateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == updated.ID {
			s.products[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.requireRole(model.RoleAdmin); err != nil {
		return err
	}
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	if s.total > 0 {
		s.total--
	}
	s.mu.Unlock()
	return nil
}

// UpdateOrderStatus moves an order through its lifecycle. Cashiers may
// confirm in-store pickups; everything else is admin territory.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if err := s.requireRole(model.RoleAdmin, model.RoleCashier); err != nil {
		return err
	}
	if err := s.backend.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// UploadProductImage stores an image on the backend and returns its URL
// for use in a subsequent product create or update.
func (s *Store) UploadProductImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := s.requireRole(model.RoleAdmin); err != nil {
		return "", err
	}
	return s.backend.UploadImage(ctx, filename, r)
}
