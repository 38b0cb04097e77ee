package store

import (
	"context"
	"fmt"

	"github.com/yourusername/helm-collect/models"
)

func (s *Store) CreateOutboundLog(ctx context.Context, entry *models.OutboundLog) error {
	if entry.Status == "" {
		entry.Status = models.OutboundQueued
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create outbound log: %w", err)
	}
	return nil
}

func (s *Store) OutboundLogsForClient(ctx context.Context, clientID uint) ([]models.OutboundLog, error) {
	var logs []models.OutboundLog
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Order("id").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list outbound logs: %w", err)
	}
	return logs, nil
}
