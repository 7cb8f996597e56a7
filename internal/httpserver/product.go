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

const msgProductNotFound = "product not found"

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, limit, search := listParams(c)
	list, err := h.Svc.List(ctx, page, limit, search)
	if err != nil {
		return fail(c, l, "get_products_error", err)
	}

	return response.OK(c, http.StatusOK, "", list)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, msgProductNotFound)
	if err != nil {
		return fail(c, l, "get_product_error", err)
	}

	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(c, l, "get_product_error", err)
	}

	return response.OK(c, http.StatusOK, "", p)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return response.Fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(c, l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return response.OK(c, http.StatusCreated, "Product created successfully", p)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := pathID(c, msgProductNotFound)
	if err != nil {
		return fail(c, l, "update_product_error", err)
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return response.Fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	p, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(c, l, "update_product_error", err)
	}

	return response.OK(c, http.StatusOK, "Product updated successfully", p)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := pathID(c, msgProductNotFound)
	if err != nil {
		return fail(c, l, "delete_product_error", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(c, l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return response.OK(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHTTP) DuplicateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.duplicate_product")

	id, err := pathID(c, msgProductNotFound)
	if err != nil {
		return fail(c, l, "duplicate_product_error", err)
	}

	p, err := h.Svc.Duplicate(ctx, id)
	if err != nil {
		return fail(c, l, "duplicate_product_error", err)
	}

	return response.OK(c, http.StatusCreated, "Product duplicated successfully", p)
}

func (h *ProductHTTP) ExportExcel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.export_excel")

	items, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(c, l, "export_products_error", err)
	}
	data, err := excel.ExportProducts(items)
	if err != nil {
		return fail(c, l, "export_products_error", err)
	}

	l.Info("export_products_success", "rows", len(items))
	return attachment(c, "products.xlsx", data)
}

func (h *ProductHTTP) ImportExcel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.import_excel")

	rows, err := readSpreadsheet(c)
	if err != nil {
		return fail(c, l, "import_products_error", err)
	}

	items, err := h.Svc.BulkCreate(ctx, excel.ProductRequests(rows))
	if err != nil {
		return fail(c, l, "import_products_error", err)
	}

	metrics.ImportedRecords.WithLabelValues("product").Add(float64(len(items)))
	return response.OK(c, http.StatusCreated, fmt.Sprintf("%d products imported successfully", len(items)), items)
}
