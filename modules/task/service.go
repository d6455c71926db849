package task

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"github.com/example/task-manager/apperr"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/i18n"
	"github.com/example/task-manager/validation"
)

var createSchema = validation.Schema{
	validation.Field("title", validation.NotEmpty().StringType().Length(1, 255)),
	validation.Field("description", validation.Optional(validation.StringType().Length(1, 10000))),
}

var updateSchema = validation.Schema{
	validation.Field("title", validation.Optional(validation.StringType().Length(1, 255))),
	validation.Field("description", validation.Optional(validation.StringType().Length(1, 10000))),
}

// Cache is the cache-aside store used for single task reads.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any) error         { return nil }
func (nopCache) Delete(context.Context, string) error           { return nil }

// Service implements task use cases on top of the repository.
type Service struct {
	repo     *Repository
	catalog  *i18n.Catalog
	cache    Cache
	notifier Notifier
	logger   types.Logger
	sfGroup  singleflight.Group
	now      func() time.Time
}

var _ TaskPort = (*Service)(nil)

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithCache enables cache-aside reads through c.
func WithCache(c Cache) ServiceOption {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithNotifier sets the mutation event sink.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a task service.
func NewService(repo *Repository, catalog *i18n.Catalog, logger types.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		repo:     repo,
		catalog:  catalog,
		cache:    nopCache{},
		notifier: nopNotifier{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKeyByID(id uint) string {
	return "id:" + strconv.FormatUint(uint64(id), 10)
}

// ListTasks returns a filtered page of tasks, newest first.
func (s *Service) ListTasks(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	q = q.Normalize()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return domain.NewPage(items, q, total), nil
}

// GetTask returns a task by ID, reading through the cache.
func (s *Service) GetTask(ctx context.Context, id uint) (*domain.Task, error) {
	key := cacheKeyByID(id)

	var cached domain.Task
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("Cache read failed", "task_id", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	// Callers that join the flight share the leader's result, so the
	// lookup must not die with the leader's request.
	fctx := context.WithoutCancel(ctx)
	v, err, _ := s.sfGroup.Do(key, func() (any, error) {
		t, err := s.repo.FindByID(fctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(fctx, key, t); err != nil {
			s.logger.Warn("Cache write failed", "task_id", id, "error", err)
		}
		return t, nil
	})
	if err != nil {
		return nil, s.storageError(ctx, err)
	}

	t := *v.(*domain.Task)
	return &t, nil
}

// CreateTask validates input and persists a new task.
func (s *Service) CreateTask(ctx context.Context, input map[string]any) (*domain.Task, error) {
	if err := s.validate(ctx, createSchema, input); err != nil {
		return nil, err
	}

	now := s.timestamp()
	t := &domain.Task{
		Title:     input["title"].(string),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d, ok := input["description"].(string); ok {
		t.Description = &d
	}
	if st, ok := statusFrom(input); ok {
		t.Status = st
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apperr.Internal(err)
	}

	created, err := s.repo.FindByID(ctx, t.ID)
	if err != nil {
		return nil, s.storageError(ctx, err)
	}

	if err := s.notifier.TaskCreated(created); err != nil {
		s.logger.Warn("Failed to publish TaskCreated event", "task_id", created.ID, "error", err)
	}
	s.logger.Info("Task created", "task_id", created.ID)
	return created, nil
}

// UpdateTask applies the keys present in input to an existing task. A null
// description clears it, invalid status values are ignored.
func (s *Service) UpdateTask(ctx context.Context, id uint, input map[string]any) (*domain.Task, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, s.storageError(ctx, err)
	}
	if err := s.validate(ctx, updateSchema, input); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if title, ok := input["title"].(string); ok {
		changes["title"] = title
	}
	if v, present := input["description"]; present {
		if v == nil {
			changes["description"] = nil
		} else {
			changes["description"] = v.(string)
		}
	}
	if st, ok := statusFrom(input); ok {
		changes["status"] = st
	}
	fields := changedFields(changes)
	changes["updated_at"] = s.timestamp()

	updated, err := s.apply(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.TaskUpdated(updated, fields); err != nil {
		s.logger.Warn("Failed to publish TaskUpdated event", "task_id", id, "error", err)
	}
	s.logger.Info("Task updated", "task_id", id, "fields", fields)
	return updated, nil
}

// DeleteTask permanently removes a task.
func (s *Service) DeleteTask(ctx context.Context, id uint) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.storageError(ctx, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storageError(ctx, err)
	}
	s.invalidate(ctx, id)

	if err := s.notifier.TaskDeleted(existing); err != nil {
		s.logger.Warn("Failed to publish TaskDeleted event", "task_id", id, "error", err)
	}
	s.logger.Info("Task deleted", "task_id", id)
	return nil
}

// ToggleTaskStatus flips the status between Pendente and Concluido.
func (s *Service) ToggleTaskStatus(ctx context.Context, id uint) (*domain.Task, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, err)
	}

	updated, err := s.apply(ctx, id, map[string]any{
		"status":     existing.Status.Toggle(),
		"updated_at": s.timestamp(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.TaskStatusToggled(updated); err != nil {
		s.logger.Warn("Failed to publish TaskStatusToggled event", "task_id", id, "error", err)
	}
	s.logger.Info("Task status toggled", "task_id", id, "status", updated.Status)
	return updated, nil
}

// apply writes changes, drops the cached copy and re-reads the row.
func (s *Service) apply(ctx context.Context, id uint, changes map[string]any) (*domain.Task, error) {
	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, s.storageError(ctx, err)
	}
	s.invalidate(ctx, id)

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, err)
	}
	return updated, nil
}

func (s *Service) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, cacheKeyByID(id)); err != nil {
		s.logger.Warn("Cache invalidation failed", "task_id", id, "error", err)
	}
}

func (s *Service) validate(ctx context.Context, schema validation.Schema, input map[string]any) error {
	tag := s.catalog.FromContext(ctx)
	if _, err := schema.Validate(input, s.translator(tag)); err != nil {
		var failure *validation.Failure
		if errors.As(err, &failure) {
			s.logger.Debug("Validation failed", "fields", failure.Errors.Fields())
			return apperr.Validation(s.catalog.Text(tag, i18n.ErrValidation), failure.Errors)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) translator(tag language.Tag) validation.Translator {
	return func(field string, kind validation.Kind) string {
		if msg, ok := s.catalog.Lookup(tag, i18n.RuleKey(field, string(kind))); ok {
			return msg
		}
		return s.catalog.Text(tag, i18n.InvalidValue)
	}
}

func (s *Service) storageError(ctx context.Context, err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(s.catalog.Text(s.catalog.FromContext(ctx), i18n.TaskNotFound))
	}
	return apperr.Internal(err)
}

// timestamp is truncated to microseconds, the finest precision every
// supported database keeps.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func statusFrom(input map[string]any) (domain.Status, bool) {
	raw, ok := input["status"].(string)
	if !ok {
		return "", false
	}
	st := domain.Status(raw)
	return st, st.IsValid()
}

func changedFields(changes map[string]any) []string {
	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
