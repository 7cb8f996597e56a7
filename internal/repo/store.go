package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListQuery struct {
	Offset int
	Limit  int
	Search string
}

// Store is the persistence contract for one entity type. Inputs are expected
// to be validated; the store only enforces storage constraints.
type Store[T any] interface {
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
	ListAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindOne(ctx context.Context, conds map[string]any) (*T, error)
	FindAll(ctx context.Context, conds map[string]any) ([]T, error)
	Insert(ctx context.Context, item *T) error
	InsertBatch(ctx context.Context, items []T) error
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SelectDistinct(ctx context.Context, column string) ([]string, error)
}

type GormStore[T any] struct {
	DB *gorm.DB
	// SearchColumns are matched case-insensitively, OR-combined.
	SearchColumns []string
	// Timeout bounds every call; zero leaves the caller's deadline alone.
	Timeout time.Duration
}

func NewGormStore[T any](db *gorm.DB, timeout time.Duration, searchColumns ...string) *GormStore[T] {
	return &GormStore[T]{DB: db, SearchColumns: searchColumns, Timeout: timeout}
}

const defaultOrder = "created_at ASC, id ASC"

func (r *GormStore[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.Timeout)
}

func (r *GormStore[T]) searchScope(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(r.SearchColumns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

		parts := make([]string, 0, len(r.SearchColumns))
		args := make([]any, 0, len(r.SearchColumns))
		for _, col := range r.SearchColumns {
			parts = append(parts, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *GormStore[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := r.DB.WithContext(ctx).Model(new(T)).Scopes(r.searchScope(q.Search)).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	items := []T{}
	if err := r.DB.WithContext(ctx).
		Model(new(T)).
		Scopes(r.searchScope(q.Search)).
		Order(defaultOrder).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, translate(err)
	}

	return items, total, nil
}

func (r *GormStore[T]) ListAll(ctx context.Context) ([]T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var items []T
	if err := r.DB.WithContext(ctx).Order(defaultOrder).Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *GormStore[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.FindOne(ctx, map[string]any{"id": id})
}

func (r *GormStore[T]) FindOne(ctx context.Context, conds map[string]any) (*T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	item := new(T)
	if err := r.DB.WithContext(ctx).Where(conds).Take(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (r *GormStore[T]) FindAll(ctx context.Context, conds map[string]any) ([]T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var items []T
	if err := r.DB.WithContext(ctx).Where(conds).Order(defaultOrder).Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *GormStore[T]) Insert(ctx context.Context, item *T) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return translate(r.DB.WithContext(ctx).Create(item).Error)
}

// InsertBatch writes all items in one transaction; any failure leaves the table untouched.
func (r *GormStore[T]) InsertBatch(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&items, 100).Error
	})
	return translate(err)
}

func (r *GormStore[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = r.DB.NowFunc()
	}

	res := r.DB.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	item := new(T)
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Take(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (r *GormStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SelectDistinct returns the sorted distinct non-null values of column.
// column must be a trusted identifier.
func (r *GormStore[T]) SelectDistinct(ctx context.Context, column string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	values := make([]string, 0)
	if err := r.DB.WithContext(ctx).
		Model(new(T)).
		Where(column+" IS NOT NULL").
		Distinct(column).
		Order(column+" ASC").
		Pluck(column, &values).Error; err != nil {
		return nil, translate(err)
	}
	return values, nil
}
