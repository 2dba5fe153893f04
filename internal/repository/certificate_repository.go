package repository

import (
	"context"

	"campusconnect/internal/model"
	"campusconnect/internal/store"
)

// CertificateRepository defines certificate persistence operations.
type CertificateRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Certificate, error)
	CreateIfAbsent(ctx context.Context, cert *model.Certificate) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}

type certificateRepository struct {
	store store.Store
}

// NewCertificateRepository creates a new certificate repository.
func NewCertificateRepository(s store.Store) CertificateRepository {
	return &certificateRepository{store: s}
}

func (r *certificateRepository) all(ctx context.Context) ([]model.Certificate, error) {
	return store.Load(ctx, r.store, store.KeyCertificates, []model.Certificate{})
}

// ListByUser returns the user's certificates in issue order.
func (r *certificateRepository) ListByUser(ctx context.Context, userID string) ([]model.Certificate, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Certificate, 0)
	for _, c := range all {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateIfAbsent appends cert unless one already exists for the same
// event and user. It reports whether cert was stored.
func (r *certificateRepository) CreateIfAbsent(ctx context.Context, cert *model.Certificate) (bool, error) {
	all, err := r.all(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range all {
		if c.EventID == cert.EventID && c.UserID == cert.UserID {
			return false, nil
		}
	}
	all = append(all, *cert)
	if err := store.Save(ctx, r.store, store.KeyCertificates, all); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByUser purges every certificate owned by userID.
func (r *certificateRepository) DeleteByUser(ctx context.Context, userID string) error {
	all, err := r.all(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Certificate, 0, len(all))
	for _, c := range all {
		if c.UserID != userID {
			kept = append(kept, c)
		}
	}
	return store.Save(ctx, r.store, store.KeyCertificates, kept)
}

// Clear drops the collection from the store.
func (r *certificateRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, store.KeyCertificates)
}
