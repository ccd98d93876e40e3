package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/asset"
	"github.com/trezcool/shule/core/catalog"
	"github.com/trezcool/shule/core/editor"
	"github.com/trezcool/shule/core/page"
	"github.com/trezcool/shule/core/render"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/theme"
	"github.com/trezcool/shule/services/preview"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
	"github.com/trezcool/shule/storage/files"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errNotFound     = httpErr{Error: "not found"}
)

func testConfig() *core.Config {
	return &core.Config{
		AppName:   "Shule",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			CORSOrigins:        []string{"*"},
		},
		Uploads: core.UploadsConfig{BaseURL: "/uploads", MaxSize: asset.DefaultMaxSize},
	}
}

// setup returns a server backed by in-memory repositories and file storage.
func setup(t *testing.T) (*Server, *Deps) {
	t.Helper()
	conf := testConfig()
	logger := core.NewDiscardLogger()

	db := inmemdb.Open()
	validate, translator := core.NewValidator()
	pageRepo := inmemdb.NewPageRepository(db)
	schools := school.NewService(inmemdb.NewSchoolRepository(db), pageRepo, validate)
	pages := page.NewService(pageRepo, schools, validate)

	cat, err := catalog.Load()
	require.NoError(t, err)
	themes, err := theme.NewService(schools)
	require.NoError(t, err)
	renderer, err := render.New(cat, logger)
	require.NoError(t, err)

	store := files.NewStore(afero.NewMemMapFs(), conf.Uploads.BaseURL)
	hub := preview.NewHub(logger)
	pages.SetNotifier(hub)

	deps := &Deps{
		Validate:   validate,
		Translator: translator,
		Catalog:    cat,
		Schools:    schools,
		Pages:      pages,
		Themes:     themes,
		Assets:     asset.NewService(store, conf.Uploads.MaxSize),
		Files:      store.Handler(),
		Editor:     editor.NewRegistry(pages, cat, logger),
		Renderer:   renderer,
		Preview:    hub,
	}
	return NewServer(conf, logger, deps), deps
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// do serves one request and returns the recorded response.
func do(srv http.Handler, method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	srv.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T) string {
	t.Helper()
	claims := GetUserClaims(DemoUser, testConfig())
	token, err := GenerateToken(claims, testConfig().SecretKey)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if assert.NoError(t, err) {
		assert.True(t, ok, "data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, srv http.Handler, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			wantCode := tt.wantCode
			if wantCode == 0 {
				wantCode = http.StatusOK
			}
			tt.wantCode = wantCode
			checkCodeAndData(t, tt, do(srv, method, tt.path, tt.token, tt.body))
		})
	}
}
