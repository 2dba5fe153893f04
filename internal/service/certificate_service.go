package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campusconnect/internal/model"
	"campusconnect/internal/repository"
	"campusconnect/internal/store"
)

// CertificateService issues and lists attendance certificates.
//
// The unexported methods run without taking the guard and are meant for other
// services that already hold it.
type CertificateService interface {
	Issue(ctx context.Context, cert *model.Certificate) (bool, error)
	ListCertificates(ctx context.Context, userID string) ([]model.Certificate, error)

	issueLocked(ctx context.Context, cert *model.Certificate) (bool, error)
	clearLocked(ctx context.Context) error
	deleteUserLocked(ctx context.Context, userID string) error
}

type certificateService struct {
	certificates repository.CertificateRepository
	guard        *store.Guard
	now          func() time.Time
	newID        func() string
}

// NewCertificateService creates a new certificate service.
func NewCertificateService(certificates repository.CertificateRepository, guard *store.Guard) CertificateService {
	return &certificateService{
		certificates: certificates,
		guard:        guard,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

// Issue stores the certificate unless the user already holds one for the event.
// It reports whether a new certificate was created.
func (s *certificateService) Issue(ctx context.Context, cert *model.Certificate) (bool, error) {
	var created bool
	err := s.guard.Do(func() error {
		var err error
		created, err = s.issueLocked(ctx, cert)
		return err
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// ListCertificates returns the certificates held by the user.
func (s *certificateService) ListCertificates(ctx context.Context, userID string) ([]model.Certificate, error) {
	return s.certificates.ListByUser(ctx, userID)
}

func (s *certificateService) issueLocked(ctx context.Context, cert *model.Certificate) (bool, error) {
	if cert.ID == "" {
		cert.ID = s.newID()
	}
	if cert.IssuedAt.IsZero() {
		cert.IssuedAt = s.now()
	}
	created, err := s.certificates.CreateIfAbsent(ctx, cert)
	if err != nil {
		return false, fmt.Errorf("issue certificate: %w", err)
	}
	return created, nil
}

func (s *certificateService) clearLocked(ctx context.Context) error {
	return s.certificates.Clear(ctx)
}

func (s *certificateService) deleteUserLocked(ctx context.Context, userID string) error {
	return s.certificates.DeleteByUser(ctx, userID)
}
