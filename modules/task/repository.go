package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/example/task-manager/domain/task"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the tasks table and its indexes.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate tasks: %w", err)
	}
	return nil
}

// List returns one page of tasks matching q and the total number of
// matching rows. q must already be normalized.
func (r *Repository) List(ctx context.Context, q domain.ListQuery) ([]domain.Task, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, q.PerPage)
	err := r.filtered(ctx, q).
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Offset()).
		Limit(q.PerPage).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *Repository) filtered(ctx context.Context, q domain.ListQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.Task{})
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		tx = tx.Where(
			`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	return tx
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Create inserts t and fills in its generated ID.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Update applies column changes to the task with id. A nil value stores NULL.
func (r *Repository) Update(ctx context.Context, id uint, changes map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(changes)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes the task with id.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedSampleTasks inserts n sample tasks when the table is empty, one
// second apart ending at now. It returns how many rows were written.
func (r *Repository) SeedSampleTasks(ctx context.Context, n int, now time.Time) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&domain.Task{}).Count(&existing).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	tasks := make([]domain.Task, n)
	start := now.Add(-time.Duration(n-1) * time.Second)
	for i := range tasks {
		status := domain.StatusPending
		if i%3 == 2 {
			status = domain.StatusCompleted
		}
		ts := start.Add(time.Duration(i) * time.Second)
		tasks[i] = domain.Task{
			Title:     fmt.Sprintf("Sample task %d", i+1),
			Status:    status,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&tasks, 100).Error; err != nil {
		return 0, fmt.Errorf("failed to seed tasks: %w", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
