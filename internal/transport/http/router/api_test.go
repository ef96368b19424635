package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-product-catalog/internal/core/auth"
	"go-product-catalog/internal/core/cache"
	"go-product-catalog/internal/core/config"
	"go-product-catalog/internal/core/database"
	"go-product-catalog/internal/domain"
	"go-product-catalog/internal/storage"
	mdw "go-product-catalog/internal/transport/http/middleware"
)

func newTestEnv(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Product{}))

	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	cfg := &config.Config{}
	cfg.Upload.MaxBodyMB = 16

	var ch *cache.Cache // redis off, loads go straight to the DB
	return NewAPIEngine(zap.NewNop(), db, jwter, ch, store, cfg)
}

func do(t *testing.T, r *gin.Engine, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set(mdw.HeaderToken, token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), "body: %s", rec.Body.String())
	return m
}

func register(t *testing.T, r *gin.Engine, username, password, name string) {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/register", "", url.Values{
		"username": {username}, "password": {password}, "name": {name},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Registered Successfully.", decode(t, rec)["title"])
}

func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/login", "", url.Values{
		"username": {username}, "password": {password},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.Equal(t, "Login Successfully.", body["message"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createProduct(t *testing.T, r *gin.Engine, token string, fields url.Values) {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/create-product", token, fields)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Product Added successfully.", decode(t, rec)["title"])
}

func listProducts(t *testing.T, r *gin.Engine, token, query string) map[string]any {
	t.Helper()
	rec := do(t, r, http.MethodGet, "/get-product"+query, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func productNames(t *testing.T, body map[string]any) []string {
	t.Helper()
	items, ok := body["products"].([]any)
	require.True(t, ok, "products missing: %v", body)
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.(map[string]any)["name"].(string))
	}
	return names
}

func TestRootAndHealth(t *testing.T) {
	r := newTestEnv(t)

	rec := do(t, r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":true,"title":"Apis"}`, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginAndEmptyListing(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")

	// same username again
	rec := do(t, r, http.MethodPost, "/register", "", url.Values{
		"username": {"alice"}, "password": {"other"}, "name": {"Alice Two"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "UserName alice Already Exist!", decode(t, rec)["errorMessage"])

	token := login(t, r, "alice", "pw123")

	body := listProducts(t, r, token, "")
	require.Equal(t, "No products found.", body["title"])
	require.Empty(t, body["products"])
	require.EqualValues(t, 0, body["total"])
	require.EqualValues(t, 0, body["pages"])
	require.EqualValues(t, 1, body["current_page"])
}

func TestLoginFailures(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")

	rec := do(t, r, http.MethodPost, "/login", "", url.Values{
		"username": {"alice"}, "password": {"nope"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Username or password is incorrect!", decode(t, rec)["errorMessage"])

	rec = do(t, r, http.MethodPost, "/login", "", url.Values{
		"username": {"ghost"}, "password": {"pw123"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Username or password is incorrect!", decode(t, rec)["errorMessage"])

	rec = do(t, r, http.MethodPost, "/login", "", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Add proper parameter first!", decode(t, rec)["errorMessage"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/get-product"},
		{http.MethodPost, "/create-product"},
		{http.MethodPut, "/update-product/1"},
		{http.MethodPost, "/delete-product"},
		{http.MethodGet, "/user-info"},
		{http.MethodPut, "/update-profile"},
	} {
		rec := do(t, r, tc.method, tc.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		require.JSONEq(t, `{"status":false,"errorMessage":"User unauthorized!"}`, rec.Body.String())
	}
}

func TestCheckUserAndResetPassword(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")

	rec := do(t, r, http.MethodPost, "/check-user", "", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User found!", decode(t, rec)["message"])

	rec = do(t, r, http.MethodPost, "/check-user", "", url.Values{"username": {"ghost"}})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Username not found!", decode(t, rec)["errorMessage"])

	rec = do(t, r, http.MethodPost, "/reset-password", "", url.Values{
		"username": {"ghost"}, "newPassword": {"fresh"},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPost, "/reset-password", "", url.Values{
		"username": {"alice"}, "newPassword": {"fresh"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Password reset successfully!", decode(t, rec)["message"])

	// old password is gone, new one works
	rec = do(t, r, http.MethodPost, "/login", "", url.Values{
		"username": {"alice"}, "password": {"pw123"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	login(t, r, "alice", "fresh")
}

func TestCreateDefaultsAndPriceFilter(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")
	token := login(t, r, "alice", "pw123")

	// no discount, no category: legacy defaults apply
	createProduct(t, r, token, url.Values{
		"name": {"Shoe"}, "desc": {"Running shoe"}, "price": {"49.99"},
	})
	createProduct(t, r, token, url.Values{
		"name": {"Boot"}, "desc": {"Leather boot"}, "price": {"89.99"}, "category": {"Footwear"},
	})

	body := listProducts(t, r, token, "")
	require.Equal(t, "Products retrieved.", body["title"])
	require.EqualValues(t, 2, body["total"])

	var shoe map[string]any
	for _, it := range body["products"].([]any) {
		p := it.(map[string]any)
		if p["name"] == "Shoe" {
			shoe = p
		}
	}
	require.NotNil(t, shoe)
	require.EqualValues(t, 0, shoe["discount"])
	require.Equal(t, "General", shoe["category"])
	require.InDelta(t, 49.99, shoe["price"].(float64), 0.001)

	body = listProducts(t, r, token, "?priceMin=40&priceMax=60")
	require.Equal(t, []string{"Shoe"}, productNames(t, body))

	body = listProducts(t, r, token, "?category=Footwear")
	require.Equal(t, []string{"Boot"}, productNames(t, body))

	body = listProducts(t, r, token, "?search=LEATHER")
	require.Equal(t, []string{"Boot"}, productNames(t, body))
}

func TestInvalidListingParams(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")
	token := login(t, r, "alice", "pw123")

	rec := do(t, r, http.MethodGet, "/get-product?priceMin=60&priceMax=40", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid price range!", decode(t, rec)["errorMessage"])

	rec = do(t, r, http.MethodGet, "/get-product?priceMin=abc", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/get-product?page=0", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid page number!", decode(t, rec)["errorMessage"])
}

func TestUpdateDeleteAndOwnership(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")
	register(t, r, "bob", "pw456", "Bob")
	aliceTok := login(t, r, "alice", "pw123")
	bobTok := login(t, r, "bob", "pw456")

	createProduct(t, r, aliceTok, url.Values{
		"name": {"Lamp"}, "desc": {"Desk lamp"}, "price": {"25"},
	})
	body := listProducts(t, r, aliceTok, "")
	id := int(body["products"].([]any)[0].(map[string]any)["id"].(float64))

	// bob cannot see or touch alice's product
	body = listProducts(t, r, bobTok, "")
	require.Empty(t, body["products"])

	upd := url.Values{"name": {"Lamp v2"}, "desc": {"Brighter"}, "price": {"30"}}
	rec := do(t, r, http.MethodPut, fmt.Sprintf("/update-product/%d", id), bobTok, upd)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Product not found!", decode(t, rec)["errorMessage"])

	rec = do(t, r, http.MethodPost, "/delete-product", bobTok, url.Values{"id": {fmt.Sprint(id)}})
	require.Equal(t, http.StatusNotFound, rec.Code)

	// the owner can
	rec = do(t, r, http.MethodPut, fmt.Sprintf("/update-product/%d", id), aliceTok, upd)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Product updated successfully.", decode(t, rec)["title"])

	body = listProducts(t, r, aliceTok, "")
	require.Equal(t, []string{"Lamp v2"}, productNames(t, body))

	rec = do(t, r, http.MethodPost, "/delete-product", aliceTok, url.Values{"id": {fmt.Sprint(id)}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Product deleted successfully.", decode(t, rec)["title"])

	// a second delete reports not found, and the listing stays empty
	rec = do(t, r, http.MethodPost, "/delete-product", aliceTok, url.Values{"id": {fmt.Sprint(id)}})
	require.Equal(t, http.StatusNotFound, rec.Code)
	body = listProducts(t, r, aliceTok, "")
	require.Empty(t, body["products"])

	rec = do(t, r, http.MethodPost, "/delete-product", aliceTok, url.Values{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Product ID is required!", decode(t, rec)["errorMessage"])
}

func TestPaginationAndSortOverHTTP(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")
	token := login(t, r, "alice", "pw123")

	for i := 1; i <= 8; i++ {
		createProduct(t, r, token, url.Values{
			"name":  {fmt.Sprintf("Item-%d", i)},
			"desc":  {"bulk"},
			"price": {fmt.Sprint(i * 10)},
		})
	}

	body := listProducts(t, r, token, "?sortBy=price_low")
	require.EqualValues(t, 8, body["total"])
	require.EqualValues(t, 2, body["pages"])
	require.Equal(t, []string{"Item-1", "Item-2", "Item-3", "Item-4", "Item-5", "Item-6"}, productNames(t, body))

	body = listProducts(t, r, token, "?sortBy=price_low&page=2")
	require.EqualValues(t, 2, body["current_page"])
	require.Equal(t, []string{"Item-7", "Item-8"}, productNames(t, body))

	body = listProducts(t, r, token, "?sortBy=price_high")
	require.Equal(t, "Item-8", productNames(t, body)[0])

	// past the end is empty, not an error
	body = listProducts(t, r, token, "?page=5")
	require.Equal(t, "No products found.", body["title"])
	require.Empty(t, body["products"])
}

func TestUpdateProfileAndUserInfo(t *testing.T) {
	r := newTestEnv(t)
	register(t, r, "alice", "pw123", "Alice")
	register(t, r, "bob", "pw456", "Bob")
	token := login(t, r, "alice", "pw123")

	rec := do(t, r, http.MethodGet, "/user-info", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "Alice", user["name"])
	require.Nil(t, user["profileImage"])

	// bob's name is taken
	rec = do(t, r, http.MethodPut, "/update-profile", token, url.Values{
		"name": {"Alice"}, "username": {"bob"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Username already exists!", decode(t, rec)["errorMessage"])

	// keeping her own username is not a conflict
	rec = do(t, r, http.MethodPut, "/update-profile", token, url.Values{
		"name": {"Alice B"}, "username": {"alice"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.Equal(t, "Profile updated successfully!", body["message"])
	require.Equal(t, "Alice B", body["user"].(map[string]any)["name"])

	rec = do(t, r, http.MethodGet, "/user-info", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Alice B", decode(t, rec)["user"].(map[string]any)["name"])

	rec = do(t, r, http.MethodPut, "/update-profile", token, url.Values{"name": {"Alice"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Name and username are required!", decode(t, rec)["errorMessage"])
}

func TestRegisterWithImageServesUpload(t *testing.T) {
	r := newTestEnv(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("username", "alice"))
	require.NoError(t, w.WriteField("password", "pw123"))
	require.NoError(t, w.WriteField("name", "Alice"))
	part, err := w.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/register", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	token := login(t, r, "alice", "pw123")
	infoRec := do(t, r, http.MethodGet, "/user-info", token, nil)
	require.Equal(t, http.StatusOK, infoRec.Code)
	image, _ := decode(t, infoRec)["user"].(map[string]any)["profileImage"].(string)
	require.True(t, strings.HasSuffix(image, ".png"))

	fileRec := do(t, r, http.MethodGet, "/uploads/"+image, "", nil)
	require.Equal(t, http.StatusOK, fileRec.Code)
	require.Equal(t, "png-bytes", fileRec.Body.String())
}
