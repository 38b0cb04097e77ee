package store

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/helm-collect/models"
)

func (s *Store) CreateDebtorToken(ctx context.Context, caseID uint, token string, ttl time.Duration) (*models.DebtorToken, error) {
	dt := &models.DebtorToken{
		CaseID:    caseID,
		Token:     token,
		ExpiresAt: s.now().UTC().Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(dt).Error; err != nil {
		return nil, fmt.Errorf("create debtor token: %w", err)
	}
	return dt, nil
}

// LiveDebtorToken returns the token only while it has not expired.
func (s *Store) LiveDebtorToken(ctx context.Context, token string) (*models.DebtorToken, error) {
	var dt models.DebtorToken
	if err := s.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, s.now().UTC()).
		First(&dt).Error; err != nil {
		return nil, notFound(err)
	}
	return &dt, nil
}

// DebtorView is what an anonymous debtor may see through a live token.
type DebtorView struct {
	Case    models.Case
	Entries []models.Money
}

func (s *Store) DebtorViewByToken(ctx context.Context, token string) (*DebtorView, error) {
	dt, err := s.LiveDebtorToken(ctx, token)
	if err != nil {
		return nil, err
	}
	c, err := s.CaseByID(ctx, dt.CaseID)
	if err != nil {
		return nil, err
	}
	entries, err := s.MoneyForCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &DebtorView{Case: *c, Entries: entries}, nil
}
