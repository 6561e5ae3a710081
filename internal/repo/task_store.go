package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loftmanager/internal/models"
)

type TaskStore struct{ db *gorm.DB }

func NewTaskStore(db *gorm.DB) *TaskStore { return &TaskStore{db: db} }

// TaskFilter narrows the listing; members only see their own tasks.
type TaskFilter struct {
	AssignedTo string
	Status     string
}

func (s *TaskStore) List(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if f.AssignedTo != "" {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var rows []models.Task
	err := q.Find(&rows).Error
	return rows, err
}

func (s *TaskStore) Get(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *TaskStore) Update(ctx context.Context, t *models.Task) error {
	return s.db.WithContext(ctx).Save(t).Error
}

// UpdateStatus lets an assignee move their own task without touching other
// fields.
func (s *TaskStore) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) error {
	return s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}

func (s *TaskStore) CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error) {
	type row struct {
		Status models.TaskStatus
		N      int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.TaskStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
