package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loftmanager/internal/models"
)

type TransactionStore struct{ db *gorm.DB }

func NewTransactionStore(db *gorm.DB) *TransactionStore { return &TransactionStore{db: db} }

// TransactionRow is a transaction joined with the loft and user display names.
type TransactionRow struct {
	models.Transaction
	LoftName string
	UserName string
}

func (s *TransactionStore) List(ctx context.Context) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := s.db.WithContext(ctx).
		Table("transactions t").
		Select("t.*, l.name as loft_name, u.full_name as user_name").
		Joins("LEFT JOIN lofts l ON t.loft_id = l.id").
		Joins("LEFT JOIN users u ON t.user_id = u.id").
		Order("t.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *TransactionStore) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&rows).Error
	return rows, err
}

func (s *TransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (s *TransactionStore) Create(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *TransactionStore) Update(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{}).Error
}

// MonthlyTotal aggregates income/expense per calendar month for the reports
// page.
type MonthlyTotal struct {
	Month   string
	Income  float64
	Expense float64
}

func (s *TransactionStore) TotalsByMonth(ctx context.Context) ([]MonthlyTotal, error) {
	var rows []MonthlyTotal
	err := s.db.WithContext(ctx).Raw(`
		SELECT to_char(date_trunc('month', COALESCE(date, created_at)), 'YYYY-MM') AS month,
		       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0)  AS income,
		       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0) AS expense
		FROM transactions
		GROUP BY 1
		ORDER BY 1 DESC`).Scan(&rows).Error
	return rows, err
}

// LoftTotal aggregates income/expense per loft.
type LoftTotal struct {
	LoftName string
	Income   float64
	Expense  float64
}

func (s *TransactionStore) TotalsByLoft(ctx context.Context) ([]LoftTotal, error) {
	var rows []LoftTotal
	err := s.db.WithContext(ctx).Raw(`
		SELECT COALESCE(l.name, '(no loft)') AS loft_name,
		       COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'income'), 0)  AS income,
		       COALESCE(SUM(t.amount) FILTER (WHERE t.transaction_type = 'expense'), 0) AS expense
		FROM transactions t
		LEFT JOIN lofts l ON t.loft_id = l.id
		GROUP BY 1
		ORDER BY 1`).Scan(&rows).Error
	return rows, err
}
