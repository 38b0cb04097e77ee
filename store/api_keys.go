package store

import (
	"context"
	"fmt"

	"github.com/yourusername/helm-collect/models"
)

func (s *Store) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

// ActiveAPIKeyByHash returns ErrNotFound for unknown and deactivated keys alike.
func (s *Store) ActiveAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var key models.APIKey
	if err := s.db.WithContext(ctx).
		Where("key_hash = ? AND active = ?", hash, true).
		First(&key).Error; err != nil {
		return nil, notFound(err)
	}
	return &key, nil
}

func (s *Store) DeactivateAPIKey(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.APIKey{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate api key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) APIKeysForClient(ctx context.Context, clientID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Order("id").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}
