package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/wine_catalog/internal/events"
	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/repo"
	"github.com/Skotchmaster/wine_catalog/internal/transport"
	"github.com/Skotchmaster/wine_catalog/internal/util"
	"github.com/Skotchmaster/wine_catalog/internal/validation"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
)

const (
	msgIngredientNotFound = "ingredient not found"
	msgIngredientTaken    = "ingredient with this name and category already exists"
	msgCategoryEmpty      = "no ingredients found in this category"
)

var IngredientSearchColumns = []string{"name", "category", "e_number"}

type IngredientService struct {
	store  repo.Store[models.Ingredient]
	events events.Publisher
}

func NewIngredientService(store repo.Store[models.Ingredient], pub events.Publisher) *IngredientService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &IngredientService{store: store, events: pub}
}

func (s *IngredientService) List(ctx context.Context, page, limit int, search string) (*transport.IngredientList, error) {
	page, limit = util.Normalize(page, limit)
	offset, limit := util.Calculate(page, limit)

	items, total, err := s.store.List(ctx, repo.ListQuery{Offset: offset, Limit: limit, Search: search})
	if err != nil {
		return nil, err
	}
	return &transport.IngredientList{Ingredients: items, Pagination: util.NewPage(page, limit, total)}, nil
}

func (s *IngredientService) ListAll(ctx context.Context) ([]models.Ingredient, error) {
	return s.store.ListAll(ctx)
}

func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	in, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewError(ErrNotFound, msgIngredientNotFound)
		}
		return nil, err
	}
	return in, nil
}

func (s *IngredientService) Create(ctx context.Context, req transport.CreateIngredientRequest) (*models.Ingredient, error) {
	in, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.Event{Type: events.IngredientCreated, EntityID: in.ID.String(), Name: in.Name})
	return in, nil
}

func (s *IngredientService) create(ctx context.Context, req transport.CreateIngredientRequest) (*models.Ingredient, error) {
	l := logging.FromContext(ctx).With("svc", "ingredient.create")

	req.Normalize()
	if err := validation.Check(req).Err(); err != nil {
		l.Warn("create_ingredient_failed", "status", 400, "reason", "invalid input", "error", err)
		return nil, err
	}
	if err := s.checkFree(ctx, req.Name, req.Category); err != nil {
		return nil, err
	}

	in := req.Model()
	if err := s.store.Insert(ctx, &in); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("create_ingredient_failed", "status", 400, "reason", "unique constraint")
			return nil, NewError(ErrDuplicateKey, msgIngredientTaken)
		}
		l.Error("create_ingredient_failed", "status", 500, "reason", "cannot insert ingredient", "error", err)
		return nil, err
	}

	l.Info("create_ingredient_success", "ingredient_id", in.ID)
	return &in, nil
}

func (s *IngredientService) checkFree(ctx context.Context, name, category string) error {
	_, err := s.store.FindOne(ctx, map[string]any{"name": name, "category": category})
	switch {
	case err == nil:
		return NewError(ErrDuplicateKey, msgIngredientTaken)
	case errors.Is(err, repo.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *IngredientService) Update(ctx context.Context, id uuid.UUID, req transport.PatchIngredientRequest) (*models.Ingredient, error) {
	l := logging.FromContext(ctx).With("svc", "ingredient.update", "ingredient_id", id)

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validation.Check(req).Err(); err != nil {
		l.Warn("update_ingredient_failed", "status", 400, "reason", "invalid input", "error", err)
		return nil, err
	}
	fields := req.Fields()

	name, category := current.Name, current.Category
	if v, ok := fields["name"].(string); ok {
		name = v
	}
	if v, ok := fields["category"].(string); ok {
		category = v
	}
	if name != current.Name || category != current.Category {
		if err := s.checkFree(ctx, name, category); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, NewError(ErrNotFound, msgIngredientNotFound)
		case errors.Is(err, repo.ErrDuplicate):
			return nil, NewError(ErrDuplicateKey, msgIngredientTaken)
		}
		l.Error("update_ingredient_failed", "status", 500, "reason", "cannot update ingredient", "error", err)
		return nil, err
	}

	publish(ctx, s.events, events.Event{Type: events.IngredientUpdated, EntityID: id.String(), Name: updated.Name})
	l.Info("update_ingredient_success")
	return updated, nil
}

func (s *IngredientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(ErrNotFound, msgIngredientNotFound)
		}
		return err
	}
	publish(ctx, s.events, events.Event{Type: events.IngredientDeleted, EntityID: id.String()})
	return nil
}

// Duplicate copies an ingredient into the same category under a "(Copy)" name.
func (s *IngredientService) Duplicate(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req := transport.IngredientRequestFrom(*src)
	req.Name = src.Name + copySuffix

	in, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.Event{Type: events.IngredientDuplicated, EntityID: in.ID.String(), Name: in.Name})
	return in, nil
}

func (s *IngredientService) ByCategory(ctx context.Context, category string) ([]models.Ingredient, error) {
	category = strings.TrimSpace(category)
	items, err := s.store.FindAll(ctx, map[string]any{"category": category})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, NewError(ErrNotFound, msgCategoryEmpty)
	}
	return items, nil
}

func (s *IngredientService) Categories(ctx context.Context) ([]string, error) {
	return s.store.SelectDistinct(ctx, "category")
}

// BulkCreate follows the same all-or-nothing policy as products.
func (s *IngredientService) BulkCreate(ctx context.Context, reqs []transport.CreateIngredientRequest) ([]models.Ingredient, error) {
	l := logging.FromContext(ctx).With("svc", "ingredient.bulk_create", "rows", len(reqs))

	if len(reqs) == 0 {
		return nil, NewError(ErrValidation, "no ingredients to import")
	}

	var problems []string
	keyRow := make(map[string]int, len(reqs))
	for i := range reqs {
		row := i + 1
		reqs[i].Normalize()
		if err := validation.Check(reqs[i]).Err(); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %s", row, err.Error()))
			continue
		}
		key := reqs[i].Name + "\x00" + reqs[i].Category
		if prev, ok := keyRow[key]; ok {
			return nil, NewError(ErrDuplicateKey, fmt.Sprintf("rows %d and %d share name %q in category %q", prev, row, reqs[i].Name, reqs[i].Category))
		}
		keyRow[key] = row
	}
	if len(problems) > 0 {
		l.Warn("bulk_create_ingredients_failed", "status", 400, "reason", "invalid rows", "invalid", len(problems))
		return nil, NewError(ErrValidation, strings.Join(problems, "; "))
	}

	for i := range reqs {
		if err := s.checkFree(ctx, reqs[i].Name, reqs[i].Category); err != nil {
			var e *Error
			if errors.As(err, &e) {
				return nil, NewError(e.Kind, fmt.Sprintf("row %d: %s", i+1, e.Message))
			}
			return nil, err
		}
	}

	items := make([]models.Ingredient, 0, len(reqs))
	for i := range reqs {
		items = append(items, reqs[i].Model())
	}

	if err := s.store.InsertBatch(ctx, items); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, NewError(ErrDuplicateKey, msgIngredientTaken)
		}
		l.Error("bulk_create_ingredients_failed", "status", 500, "reason", "cannot insert batch", "error", err)
		return nil, err
	}

	publish(ctx, s.events, events.Event{Type: events.IngredientsImported, Count: len(items)})
	l.Info("bulk_create_ingredients_success", "created", len(items))
	return items, nil
}
