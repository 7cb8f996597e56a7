package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/wine_catalog/internal/events"
	"github.com/Skotchmaster/wine_catalog/internal/httpserver"
	"github.com/Skotchmaster/wine_catalog/internal/models"
	"github.com/Skotchmaster/wine_catalog/internal/qr"
	"github.com/Skotchmaster/wine_catalog/internal/repo"
	"github.com/Skotchmaster/wine_catalog/internal/service"
	"github.com/Skotchmaster/wine_catalog/internal/storage"
	"github.com/Skotchmaster/wine_catalog/internal/testutil"
	"github.com/Skotchmaster/wine_catalog/pkg/hash"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/tokens"
)

const testSecret = "http-test-secret"

type testEnv struct {
	e      *echo.Echo
	events *events.Memory
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	images, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	pub := &events.Memory{}
	issuer := tokens.NewIssuer([]byte(testSecret), time.Hour)

	users := repo.NewGormStore[models.User](db, time.Second)
	products := repo.NewGormStore[models.Product](db, time.Second, service.ProductSearchColumns...)
	ingredients := repo.NewGormStore[models.Ingredient](db, time.Second, service.IngredientSearchColumns...)

	e := httpserver.New(logging.New(logging.Options{Level: "error", Output: io.Discard}), &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Svc: service.NewAuthService(users, hash.New(bcrypt.MinCost), issuer, pub)},
		Products:    &httpserver.ProductHTTP{Svc: service.NewProductService(products, qr.NewGenerator(), pub)},
		Ingredients: &httpserver.IngredientHTTP{Svc: service.NewIngredientService(ingredients, pub)},
		Uploads:     &httpserver.UploadHTTP{Store: images, MaxBytes: 1 << 20},
		Health:      &httpserver.HealthHTTP{DB: db, Environment: "test"},
		Verifier:    issuer,

		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testEnv{e: e, events: pub}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// upload posts one file under field as multipart/form-data.
func (env *testEnv) upload(t *testing.T, path, field, filename, contentType string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "nothing attached"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) envelope {
	t.Helper()
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, v))
	return env
}

// signup registers a user and returns its bearer token.
func (env *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":           email,
		"password":        "secret1",
		"confirmPassword": "secret1",
		"name":            "Sommelier",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &res)
	require.NotEmpty(t, res.Token)
	return res.Token
}

func productBody(sku string) map[string]any {
	return map[string]any{
		"name":      "Chardonnay Reserve",
		"brand":     "Domaine Test",
		"netVolume": "0.75 L",
		"type":      "white",
		"sku":       sku,
		"country":   "France",
	}
}

func jsonUnmarshal(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
