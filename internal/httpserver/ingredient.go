package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/wine_catalog/internal/excel"
	"github.com/Skotchmaster/wine_catalog/internal/metrics"
	"github.com/Skotchmaster/wine_catalog/internal/service"
	"github.com/Skotchmaster/wine_catalog/internal/transport"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/response"
)

const msgIngredientNotFound = "ingredient not found"

type IngredientHTTP struct {
	Svc *service.IngredientService
}

func (h *IngredientHTTP) GetIngredients(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.get_ingredients")

	page, limit, search := listParams(c)
	list, err := h.Svc.List(ctx, page, limit, search)
	if err != nil {
		return fail(c, l, "get_ingredients_error", err)
	}

	return response.OK(c, http.StatusOK, "", list)
}

func (h *IngredientHTTP) GetIngredient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.get_ingredient")

	id, err := pathID(c, msgIngredientNotFound)
	if err != nil {
		return fail(c, l, "get_ingredient_error", err)
	}

	in, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(c, l, "get_ingredient_error", err)
	}

	return response.OK(c, http.StatusOK, "", in)
}

func (h *IngredientHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.get_categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(c, l, "get_categories_error", err)
	}

	return response.OK(c, http.StatusOK, "", cats)
}

func (h *IngredientHTTP) GetByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.get_by_category")

	items, err := h.Svc.ByCategory(ctx, c.Param("category"))
	if err != nil {
		return fail(c, l, "get_by_category_error", err)
	}

	return response.OK(c, http.StatusOK, "", items)
}

func (h *IngredientHTTP) CreateIngredient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.create_ingredient")

	var req transport.CreateIngredientRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_ingredient_error", "status", 400, "reason", "invalid body", "error", err)
		return response.Fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	in, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(c, l, "create_ingredient_error", err)
	}

	return response.OK(c, http.StatusCreated, "Ingredient created successfully", in)
}

func (h *IngredientHTTP) UpdateIngredient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.update_ingredient")

	id, err := pathID(c, msgIngredientNotFound)
	if err != nil {
		return fail(c, l, "update_ingredient_error", err)
	}

	var req transport.PatchIngredientRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_ingredient_error", "status", 400, "reason", "invalid body", "error", err)
		return response.Fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	in, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(c, l, "update_ingredient_error", err)
	}

	return response.OK(c, http.StatusOK, "Ingredient updated successfully", in)
}

func (h *IngredientHTTP) DeleteIngredient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.delete_ingredient")

	id, err := pathID(c, msgIngredientNotFound)
	if err != nil {
		return fail(c, l, "delete_ingredient_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(c, l, "delete_ingredient_error", err)
	}

	return response.OK(c, http.StatusOK, "Ingredient deleted successfully", nil)
}

func (h *IngredientHTTP) DuplicateIngredient(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.duplicate_ingredient")

	id, err := pathID(c, msgIngredientNotFound)
	if err != nil {
		return fail(c, l, "duplicate_ingredient_error", err)
	}

	in, err := h.Svc.Duplicate(ctx, id)
	if err != nil {
		return fail(c, l, "duplicate_ingredient_error", err)
	}

	return response.OK(c, http.StatusCreated, "Ingredient duplicated successfully", in)
}

func (h *IngredientHTTP) ExportExcel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.export_excel")

	items, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(c, l, "export_ingredients_error", err)
	}
	data, err := excel.ExportIngredients(items)
	if err != nil {
		return fail(c, l, "export_ingredients_error", err)
	}

	return attachment(c, "ingredients.xlsx", data)
}

func (h *IngredientHTTP) ImportExcel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ingredient.import_excel")

	rows, err := readSpreadsheet(c)
	if err != nil {
		return fail(c, l, "import_ingredients_error", err)
	}

	items, err := h.Svc.BulkCreate(ctx, excel.IngredientRequests(rows))
	if err != nil {
		return fail(c, l, "import_ingredients_error", err)
	}

	metrics.ImportedRecords.WithLabelValues("ingredient").Add(float64(len(items)))
	return response.OK(c, http.StatusCreated, fmt.Sprintf("%d ingredients imported successfully", len(items)), items)
}
