package service

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/wine_catalog/internal/events"
	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/repo"
	"github.com/Skotchmaster/wine_catalog/internal/testutil"
	"github.com/Skotchmaster/wine_catalog/internal/transport"
	"github.com/Skotchmaster/wine_catalog/pkg/hash"
	"github.com/Skotchmaster/wine_catalog/pkg/tokens"
)

const testSecret = "test-jwt-secret"

type fakeQR struct{ calls int }

func (f *fakeQR) Generate(text string) (string, error) {
	f.calls++
	return "qr:" + text, nil
}

type testEnv struct {
	auth        *AuthService
	products    *ProductService
	ingredients *IngredientService
	users       *repo.GormStore[models.User]
	productRepo *repo.GormStore[models.Product]
	issuer      *tokens.Issuer
	qr          *fakeQR
	events      *events.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	env := &testEnv{
		users:       repo.NewGormStore[models.User](db, time.Second),
		productRepo: repo.NewGormStore[models.Product](db, time.Second, ProductSearchColumns...),
		issuer:      tokens.NewIssuer([]byte(testSecret), time.Hour),
		qr:          &fakeQR{},
		events:      &events.Memory{},
	}
	ingredientRepo := repo.NewGormStore[models.Ingredient](db, time.Second, IngredientSearchColumns...)

	env.auth = NewAuthService(env.users, hash.New(bcrypt.MinCost), env.issuer, env.events)
	env.products = NewProductService(env.productRepo, env.qr, env.events)
	env.ingredients = NewIngredientService(ingredientRepo, env.events)
	return env
}

func strp(s string) *string { return &s }

func productReq(i int) transport.CreateProductRequest {
	return transport.CreateProductRequest{
		Name:      fmt.Sprintf("Wine %02d", i),
		Brand:     "Domaine Test",
		NetVolume: "0.75 L",
		Type:      "red",
		SKU:       fmt.Sprintf("SKU-%02d", i),
		Country:   "France",
	}
}

func ingredientReq(name, category string) transport.CreateIngredientRequest {
	return transport.CreateIngredientRequest{Name: name, Category: category}
}
