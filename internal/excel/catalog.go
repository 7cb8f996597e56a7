package excel

import (
	"strings"
	"time"

	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/transport"
)

const (
	ProductsSheet    = "Products"
	IngredientsSheet = "Ingredients"
)

var ProductHeader = []string{
	"id", "name", "brand", "netVolume", "vintage", "type", "sugarContent", "appellation",
	"sku", "alcohol", "country", "ean", "imageUrl", "qrCode", "createdAt", "updatedAt",
}

var IngredientHeader = []string{
	"id", "name", "category", "eNumber", "allergens", "description", "createdAt", "updatedAt",
}

func ExportProducts(products []models.Product) ([]byte, error) {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.ID.String(), p.Name, p.Brand, p.NetVolume, deref(p.Vintage), p.Type, deref(p.SugarContent),
			deref(p.Appellation), p.SKU, deref(p.Alcohol), p.Country, deref(p.EAN), deref(p.ImageURL),
			p.QRCode, stamp(p.CreatedAt), stamp(p.UpdatedAt),
		})
	}
	return Export(ProductsSheet, ProductHeader, rows)
}

func ExportIngredients(ingredients []models.Ingredient) ([]byte, error) {
	rows := make([][]any, 0, len(ingredients))
	for _, in := range ingredients {
		rows = append(rows, []any{
			in.ID.String(), in.Name, in.Category, deref(in.ENumber), strings.Join(in.Allergens, ", "),
			deref(in.Description), stamp(in.CreatedAt), stamp(in.UpdatedAt),
		})
	}
	return Export(IngredientsSheet, IngredientHeader, rows)
}

// ProductRequests maps parsed rows onto create requests. Server-owned columns
// (id, qrCode, timestamps) are ignored.
func ProductRequests(rows []Row) []transport.CreateProductRequest {
	out := make([]transport.CreateProductRequest, 0, len(rows))
	for _, r := range rows {
		out = append(out, transport.CreateProductRequest{
			Name:         r.Get("name"),
			Brand:        r.Get("brand"),
			NetVolume:    r.Get("netVolume"),
			Vintage:      opt(r.Get("vintage")),
			Type:         r.Get("type"),
			SugarContent: opt(r.Get("sugarContent")),
			Appellation:  opt(r.Get("appellation")),
			SKU:          r.Get("sku"),
			Alcohol:      opt(r.Get("alcohol")),
			Country:      r.Get("country"),
			EAN:          opt(r.Get("ean")),
			ImageURL:     opt(r.Get("imageUrl")),
		})
	}
	return out
}

func IngredientRequests(rows []Row) []transport.CreateIngredientRequest {
	out := make([]transport.CreateIngredientRequest, 0, len(rows))
	for _, r := range rows {
		var allergens []string
		if v := r.Get("allergens"); v != "" {
			for _, a := range strings.Split(v, ",") {
				allergens = append(allergens, strings.TrimSpace(a))
			}
		}
		out = append(out, transport.CreateIngredientRequest{
			Name:        r.Get("name"),
			Category:    r.Get("category"),
			ENumber:     opt(r.Get("eNumber")),
			Allergens:   allergens,
			Description: opt(r.Get("description")),
		})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
