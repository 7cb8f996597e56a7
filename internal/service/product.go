package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/Skotchmaster/wine_catalog/internal/events"
	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/repo"
	"github.com/Skotchmaster/wine_catalog/internal/transport"
	"github.com/Skotchmaster/wine_catalog/internal/util"
	"github.com/Skotchmaster/wine_catalog/internal/validation"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
)

const (
	msgProductNotFound = "product not found"
	msgSKUTaken        = "product with this SKU already exists"
	msgEANTaken        = "product with this EAN already exists"
	msgProductConflict = "product with this SKU or EAN already exists"

	copySuffix = " (Copy)"
)

// ProductSearchColumns are the columns the list search matches against.
var ProductSearchColumns = []string{"name", "brand", "sku"}

type ProductService struct {
	store  repo.Store[models.Product]
	qr     QRGenerator
	events events.Publisher
}

func NewProductService(store repo.Store[models.Product], qr QRGenerator, pub events.Publisher) *ProductService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &ProductService{store: store, qr: qr, events: pub}
}

func qrText(name, brand, sku string) string {
	return fmt.Sprintf("Product: %s\nBrand: %s\nSKU: %s", name, brand, sku)
}

func (s *ProductService) List(ctx context.Context, page, limit int, search string) (*transport.ProductList, error) {
	page, limit = util.Normalize(page, limit)
	offset, limit := util.Calculate(page, limit)

	items, total, err := s.store.List(ctx, repo.ListQuery{Offset: offset, Limit: limit, Search: search})
	if err != nil {
		return nil, err
	}
	return &transport.ProductList{Products: items, Pagination: util.NewPage(page, limit, total)}, nil
}

func (s *ProductService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.store.ListAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewError(ErrNotFound, msgProductNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	p, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.Event{Type: events.ProductCreated, EntityID: p.ID.String(), Name: p.Name})
	return p, nil
}

func (s *ProductService) create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.create")

	req.Normalize()
	if err := validation.Check(req).Err(); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid input", "error", err)
		return nil, err
	}

	if err := s.checkSKU(ctx, req.SKU); err != nil {
		return nil, err
	}
	if err := s.checkEAN(ctx, req.EAN); err != nil {
		return nil, err
	}

	p := req.Model()
	code, err := s.qr.Generate(qrText(p.Name, p.Brand, p.SKU))
	if err != nil {
		l.Error("create_product_failed", "status", 500, "reason", "cannot generate qr code", "error", err)
		return nil, err
	}
	p.QRCode = code

	if err := s.store.Insert(ctx, &p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("create_product_failed", "status", 400, "reason", "unique constraint", "sku", p.SKU)
			return nil, NewError(ErrDuplicateKey, msgProductConflict)
		}
		l.Error("create_product_failed", "status", 500, "reason", "cannot insert product", "error", err)
		return nil, err
	}

	l.Info("create_product_success", "product_id", p.ID)
	return &p, nil
}

func (s *ProductService) checkSKU(ctx context.Context, sku string) error {
	return s.checkFree(ctx, map[string]any{"sku": sku}, msgSKUTaken)
}

func (s *ProductService) checkEAN(ctx context.Context, ean *string) error {
	if ean == nil {
		return nil
	}
	return s.checkFree(ctx, map[string]any{"ean": *ean}, msgEANTaken)
}

func (s *ProductService) checkFree(ctx context.Context, conds map[string]any, msg string) error {
	_, err := s.store.FindOne(ctx, conds)
	switch {
	case err == nil:
		return NewError(ErrDuplicateKey, msg)
	case errors.Is(err, repo.ErrNotFound):
		return nil
	default:
		return err
	}
}

// Update applies a partial change. Uniqueness is re-checked only for keys
// that actually change, and the QR code follows name, brand and sku.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.update", "product_id", id)

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validation.Check(req).Err(); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid input", "error", err)
		return nil, err
	}
	fields := req.Fields()

	if sku, ok := fields["sku"].(string); ok && sku != current.SKU {
		if err := s.checkSKU(ctx, sku); err != nil {
			return nil, err
		}
	}
	if ean, ok := fields["ean"].(string); ok && (current.EAN == nil || ean != *current.EAN) {
		if err := s.checkEAN(ctx, &ean); err != nil {
			return nil, err
		}
	}

	name, brand, sku := current.Name, current.Brand, current.SKU
	if v, ok := fields["name"].(string); ok {
		name = v
	}
	if v, ok := fields["brand"].(string); ok {
		brand = v
	}
	if v, ok := fields["sku"].(string); ok {
		sku = v
	}
	if name != current.Name || brand != current.Brand || sku != current.SKU {
		code, err := s.qr.Generate(qrText(name, brand, sku))
		if err != nil {
			l.Error("update_product_failed", "status", 500, "reason", "cannot generate qr code", "error", err)
			return nil, err
		}
		fields["qr_code"] = code
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, NewError(ErrNotFound, msgProductNotFound)
		case errors.Is(err, repo.ErrDuplicate):
			l.Warn("update_product_failed", "status", 400, "reason", "unique constraint")
			return nil, NewError(ErrDuplicateKey, msgProductConflict)
		}
		l.Error("update_product_failed", "status", 500, "reason", "cannot update product", "error", err)
		return nil, err
	}

	publish(ctx, s.events, events.Event{Type: events.ProductUpdated, EntityID: id.String(), Name: updated.Name})
	l.Info("update_product_success")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewError(ErrNotFound, msgProductNotFound)
		}
		return err
	}
	publish(ctx, s.events, events.Event{Type: events.ProductDeleted, EntityID: id.String()})
	return nil
}

// Duplicate copies a product under a new sku. The EAN is not copied since a
// barcode identifies exactly one product.
func (s *ProductService) Duplicate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req := transport.ProductRequestFrom(*src)
	req.Name = src.Name + copySuffix
	req.SKU = src.SKU + "-copy-" + strings.ToLower(ulid.Make().String())
	req.EAN = nil

	p, err := s.create(ctx, req)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.Event{Type: events.ProductDuplicated, EntityID: p.ID.String(), Name: p.Name})
	return p, nil
}

// BulkCreate is all-or-nothing: every row is validated and checked for key
// conflicts first, then all rows are inserted in one transaction.
func (s *ProductService) BulkCreate(ctx context.Context, reqs []transport.CreateProductRequest) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "product.bulk_create", "rows", len(reqs))

	if len(reqs) == 0 {
		return nil, NewError(ErrValidation, "no products to import")
	}

	var problems []string
	skuRow := make(map[string]int, len(reqs))
	eanRow := make(map[string]int, len(reqs))
	skus := make([]string, 0, len(reqs))
	for i := range reqs {
		row := i + 1
		reqs[i].Normalize()
		if err := validation.Check(reqs[i]).Err(); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %s", row, err.Error()))
			continue
		}
		if prev, ok := skuRow[reqs[i].SKU]; ok {
			return nil, NewError(ErrDuplicateKey, fmt.Sprintf("rows %d and %d share SKU %q", prev, row, reqs[i].SKU))
		}
		skuRow[reqs[i].SKU] = row
		skus = append(skus, reqs[i].SKU)
		if reqs[i].EAN != nil {
			if prev, ok := eanRow[*reqs[i].EAN]; ok {
				return nil, NewError(ErrDuplicateKey, fmt.Sprintf("rows %d and %d share EAN %q", prev, row, *reqs[i].EAN))
			}
			eanRow[*reqs[i].EAN] = row
		}
	}
	if len(problems) > 0 {
		l.Warn("bulk_create_products_failed", "status", 400, "reason", "invalid rows", "invalid", len(problems))
		return nil, NewError(ErrValidation, strings.Join(problems, "; "))
	}

	existing, err := s.store.FindAll(ctx, map[string]any{"sku": skus})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, NewError(ErrDuplicateKey, fmt.Sprintf("row %d: %s", skuRow[existing[0].SKU], msgSKUTaken))
	}
	if len(eanRow) > 0 {
		eans := make([]string, 0, len(eanRow))
		for ean := range eanRow {
			eans = append(eans, ean)
		}
		taken, err := s.store.FindAll(ctx, map[string]any{"ean": eans})
		if err != nil {
			return nil, err
		}
		if len(taken) > 0 && taken[0].EAN != nil {
			return nil, NewError(ErrDuplicateKey, fmt.Sprintf("row %d: %s", eanRow[*taken[0].EAN], msgEANTaken))
		}
	}

	items := make([]models.Product, 0, len(reqs))
	for i := range reqs {
		p := reqs[i].Model()
		code, err := s.qr.Generate(qrText(p.Name, p.Brand, p.SKU))
		if err != nil {
			return nil, err
		}
		p.QRCode = code
		items = append(items, p)
	}

	if err := s.store.InsertBatch(ctx, items); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, NewError(ErrDuplicateKey, msgProductConflict)
		}
		l.Error("bulk_create_products_failed", "status", 500, "reason", "cannot insert batch", "error", err)
		return nil, err
	}

	publish(ctx, s.events, events.Event{Type: events.ProductsImported, Count: len(items), At: time.Now().UTC()})
	l.Info("bulk_create_products_success", "created", len(items))
	return items, nil
}
