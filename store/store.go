// Package store is the data-access layer injected into every handler. It
// wraps a *gorm.DB and exposes query/insert/update/delete by id for the
// case-management schema.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/helm-collect/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock returns a copy of the store that reads the current time from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{db: s.db, now: now}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Now() time.Time {
	return s.now()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Users

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// Principal loads the session identity for a user id.
func (s *Store) Principal(ctx context.Context, id uint) (*models.Principal, error) {
	user, err := s.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := user.Principal()
	return &p, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Clients

func (s *Store) CreateClient(ctx context.Context, client *models.Client) error {
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *Store) ClientByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("business_name, id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// DeleteClient removes the client; the database cascades to its cases and
// everything they own.
func (s *Store) DeleteClient(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Client{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Cases

func (s *Store) CreateCase(ctx context.Context, c *models.Case) error {
	if c.Status == "" {
		c.Status = models.CaseStatusOpen
	}
	if !models.ValidCaseStatus(c.Status) {
		return fmt.Errorf("create case: invalid status %q", c.Status)
	}
	if c.OpenDate.IsZero() {
		c.OpenDate = today(s.now())
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

func (s *Store) CaseByID(ctx context.Context, id uint) (*models.Case, error) {
	var c models.Case
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) ListCases(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	if err := s.db.WithContext(ctx).Order("client_id, id").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return cases, nil
}

func (s *Store) CasesForClient(ctx context.Context, clientID uint) ([]models.Case, error) {
	var cases []models.Case
	if err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("open_date DESC, id DESC").
		Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("list client cases: %w", err)
	}
	return cases, nil
}

// CaseUpdate carries the editable case fields. Nil fields are left
// unchanged; the Clear flags set the nullable columns to NULL.
type CaseUpdate struct {
	Status              *string
	Substatus           *string
	NextActionDate      *time.Time
	InterestRate        *float64
	ClearNextActionDate bool
	ClearInterestRate   bool
}

func (s *Store) UpdateCase(ctx context.Context, id uint, upd CaseUpdate) error {
	changes := map[string]interface{}{}
	if upd.Status != nil {
		if !models.ValidCaseStatus(*upd.Status) {
			return fmt.Errorf("update case: invalid status %q", *upd.Status)
		}
		changes["status"] = *upd.Status
	}
	if upd.Substatus != nil {
		changes["substatus"] = *upd.Substatus
	}
	if upd.NextActionDate != nil {
		changes["next_action_date"] = *upd.NextActionDate
	} else if upd.ClearNextActionDate {
		changes["next_action_date"] = nil
	}
	if upd.InterestRate != nil {
		changes["interest_rate"] = *upd.InterestRate
	} else if upd.ClearInterestRate {
		changes["interest_rate"] = nil
	}

	if _, err := s.CaseByID(ctx, id); err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return fmt.Errorf("update case: %w", err)
	}
	return nil
}

// DeleteCase removes the case; money, notes and debtor tokens cascade.
func (s *Store) DeleteCase(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Case{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete case: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Money

func (s *Store) CreateMoney(ctx context.Context, m *models.Money) error {
	if !models.ValidMoneyType(m.Type) {
		return fmt.Errorf("create money: invalid type %q", m.Type)
	}
	if m.Amount.IsNegative() {
		return fmt.Errorf("create money: negative amount %s", m.Amount)
	}
	if m.TransactionDate.IsZero() {
		m.TransactionDate = today(s.now())
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create money: %w", err)
	}
	return nil
}

func (s *Store) MoneyForCase(ctx context.Context, caseID uint) ([]models.Money, error) {
	var rows []models.Money
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("transaction_date, id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list money: %w", err)
	}
	return rows, nil
}

// MoneyForCases loads the entries of several cases in one query.
func (s *Store) MoneyForCases(ctx context.Context, caseIDs []uint) ([]models.Money, error) {
	if len(caseIDs) == 0 {
		return nil, nil
	}
	var rows []models.Money
	if err := s.db.WithContext(ctx).Where("case_id IN ?", caseIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list money: %w", err)
	}
	return rows, nil
}

// Notes

func (s *Store) CreateNote(ctx context.Context, n *models.Note) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (s *Store) NotesForCase(ctx context.Context, caseID uint) ([]models.Note, error) {
	var notes []models.Note
	if err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC, id DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
