package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/splatmarket/splatmarket/app/controllers"
	"github.com/splatmarket/splatmarket/app/graphql"
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/app/repositories"
	"github.com/splatmarket/splatmarket/app/routes"
	"github.com/splatmarket/splatmarket/app/services"
	"github.com/splatmarket/splatmarket/pkg/auth"
	"github.com/splatmarket/splatmarket/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memDisk struct {
	objects map[string][]byte
}

func (d *memDisk) Put(_ context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	d.objects[key] = data
	return int64(len(data)), nil
}

func (d *memDisk) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := d.objects[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (d *memDisk) Delete(_ context.Context, key string) error { delete(d.objects, key); return nil }

func (d *memDisk) Exists(_ context.Context, key string) (bool, error) {
	_, ok := d.objects[key]
	return ok, nil
}

func (d *memDisk) URL(key string) string {
	return "https://3d-modeling-mall.s3.amazonaws.com/" + key
}

func testHandler(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.Order{},
		&models.Review{},
	))

	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	categories := repositories.NewCategoryRepository(db)
	reviews := repositories.NewReviewRepository(db)
	orders := repositories.NewOrderRepository(db)

	media := services.NewMediaService(&memDisk{objects: map[string][]byte{}})
	accounts := services.NewAccountService(users, auth.PlainVerifier{})
	catalog := services.NewCatalogService(items, categories, reviews, media)
	orderSvc := services.NewOrderService(orders, users, items)

	schema, err := graphql.NewSchema(catalog)
	require.NoError(t, err)

	r := router.New()
	routes.Register(r, routes.Handlers{
		Users:      controllers.NewUserController(accounts),
		Items:      controllers.NewItemController(catalog),
		Categories: controllers.NewCategoryController(catalog),
		Reviews:    controllers.NewReviewController(catalog),
		Orders:     controllers.NewOrderController(orderSvc),
		Render:     controllers.NewRenderController(services.NewRenderService(items)),
		GraphQL:    graphql.Handler(schema),
		RelayWS:    func(w http.ResponseWriter, r *http.Request) {},
	})
	return r.Handler()
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestJoinThenDuplicate(t *testing.T) {
	h := testHandler(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/join", `{"email":"a@x.com","password":"p"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var user struct {
		ID    uint   `json:"ID"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotContains(t, string(env.Data), `"password"`)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/join", `{"email":"a@x.com","password":"p"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	h := testHandler(t)

	doJSON(t, h, http.MethodPost, "/api/join", `{"email":"a@x.com","password":"right"}`)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec2, env2 := doJSON(t, h, http.MethodPost, "/api/login", `{"email":"nobody@x.com","password":"right"}`)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)

	_, env1 := doJSON(t, h, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, env1.Message, env2.Message)

	rec3, _ := doJSON(t, h, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"right"}`)
	assert.Equal(t, http.StatusOK, rec3.Code)
}

func TestJoinValidation(t *testing.T) {
	h := testHandler(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/join", `{"email":"not-an-email","password":"p"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/join", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemNotFound(t *testing.T) {
	h := testHandler(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/items/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartItem(t *testing.T, fields map[string]string, imageName string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateItemAndMedia(t *testing.T) {
	h := testHandler(t)

	body, contentType := multipartItem(t, map[string]string{
		"name":        "Scanned armchair",
		"description": "mid-century",
		"price":       "120",
		"category_id": "1",
	}, "chair.png", []byte("png bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var item models.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, 120, item.Price)
	require.NotNil(t, item.Image)
	assert.Nil(t, item.Video)
	assert.Nil(t, item.Splat)

	rec2, env2 := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/items/%d/multi", item.ID), "")
	require.Equal(t, http.StatusOK, rec2.Code)

	var media struct {
		ImagePath *string `json:"image_path"`
		VideoPath *string `json:"video_path"`
		SplatPath *string `json:"splat_path"`
	}
	require.NoError(t, json.Unmarshal(env2.Data, &media))
	require.NotNil(t, media.ImagePath)
	assert.Equal(t, *item.Image, *media.ImagePath)
	assert.Nil(t, media.VideoPath)

	req3 := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/items/%d/image", item.ID), nil)
	rec3 := httptest.NewRecorder()
	h.ServeHTTP(rec3, req3)
	require.Equal(t, http.StatusOK, rec3.Code)
	assert.Equal(t, "png bytes", rec3.Body.String())
}

func TestItemValidation(t *testing.T) {
	h := testHandler(t)

	body, contentType := multipartItem(t, map[string]string{"price": "5"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body, contentType = multipartItem(t, map[string]string{"name": "x", "price": "cheap"}, "", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// category_id is a required form field.
	body, contentType = multipartItem(t, map[string]string{"name": "x", "price": "5"}, "", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	h := testHandler(t)

	doJSON(t, h, http.MethodPost, "/api/join", `{"email":"a@x.com","password":"p"}`)

	body, contentType := multipartItem(t, map[string]string{"name": "chair", "price": "10", "category_id": "1"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Client-supplied price is ignored; the item's unit price wins.
	rec2, env := doJSON(t, h, http.MethodPost, "/api/order",
		`{"user_id":1,"item_id":1,"price":999,"count":3,"pay":false}`)
	require.Equal(t, http.StatusCreated, rec2.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, 10, order.Price)
	assert.Equal(t, 3, order.Count)
	assert.False(t, order.Pay)

	// The item's stored price is untouched.
	_, itemEnv := doJSON(t, h, http.MethodGet, "/api/items/1", "")
	var item models.Item
	require.NoError(t, json.Unmarshal(itemEnv.Data, &item))
	assert.Equal(t, 10, item.Price)

	rec3, _ := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/order/pay/%d", order.ID), "")
	assert.Equal(t, http.StatusOK, rec3.Code)
	rec4, env4 := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/order/pay/%d", order.ID), "")
	assert.Equal(t, http.StatusOK, rec4.Code)

	var paid models.Order
	require.NoError(t, json.Unmarshal(env4.Data, &paid))
	assert.True(t, paid.Pay)

	rec5, _ := doJSON(t, h, http.MethodPut, "/api/order/pay/999", "")
	assert.Equal(t, http.StatusNotFound, rec5.Code)

	rec6, _ := doJSON(t, h, http.MethodGet, "/api/orders/user/1", "")
	assert.Equal(t, http.StatusOK, rec6.Code)
	rec7, _ := doJSON(t, h, http.MethodGet, "/api/orders/user/999", "")
	assert.Equal(t, http.StatusNotFound, rec7.Code)
}

func TestCategoryAndSearch(t *testing.T) {
	h := testHandler(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/categorys", `{"name":"furniture"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var category models.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))

	body, contentType := multipartItem(t, map[string]string{
		"name":        "Scanned armchair",
		"price":       "120",
		"category_id": fmt.Sprint(category.ID),
	}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusCreated, rec2.Code)

	rec3, env3 := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/items/category/%d", category.ID), "")
	require.Equal(t, http.StatusOK, rec3.Code)
	var items []models.Item
	require.NoError(t, json.Unmarshal(env3.Data, &items))
	assert.Len(t, items, 1)

	_, env4 := doJSON(t, h, http.MethodGet, "/api/items/search/ARMCHAIR", "")
	items = nil
	require.NoError(t, json.Unmarshal(env4.Data, &items))
	assert.Len(t, items, 1)

	rec5, _ := doJSON(t, h, http.MethodDelete,
		fmt.Sprintf("/api/items/%d/category/%d", items[0].ID, category.ID), "")
	assert.Equal(t, http.StatusOK, rec5.Code)

	rec6, _ := doJSON(t, h, http.MethodDelete,
		fmt.Sprintf("/api/items/999/category/%d", category.ID), "")
	assert.Equal(t, http.StatusNotFound, rec6.Code)
}

func TestReviewEndpoints(t *testing.T) {
	h := testHandler(t)

	body, contentType := multipartItem(t, map[string]string{"name": "chair", "price": "10", "category_id": "1"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec2, _ := doJSON(t, h, http.MethodPost, "/api/items/1/reviews",
		`{"content":"great","star":5,"user_id":1}`)
	assert.Equal(t, http.StatusCreated, rec2.Code)

	rec3, _ := doJSON(t, h, http.MethodPost, "/api/items/999/reviews",
		`{"content":"great","star":5,"user_id":1}`)
	assert.Equal(t, http.StatusNotFound, rec3.Code)

	// Star carries no range check; out-of-range ratings are stored as sent.
	rec4, env4 := doJSON(t, h, http.MethodPost, "/api/items/1/reviews",
		`{"content":"big star","star":9,"user_id":1}`)
	assert.Equal(t, http.StatusCreated, rec4.Code)
	var big models.Review
	require.NoError(t, json.Unmarshal(env4.Data, &big))
	assert.Equal(t, 9, big.Star)

	_, env := doJSON(t, h, http.MethodGet, "/api/items/1/reviews", "")
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(env.Data, &reviews))
	assert.Len(t, reviews, 2)

	_, envAll := doJSON(t, h, http.MethodGet, "/api/reviews", "")
	reviews = nil
	require.NoError(t, json.Unmarshal(envAll.Data, &reviews))
	assert.Len(t, reviews, 2)
}

func multipartFile(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpdateSplat(t *testing.T) {
	h := testHandler(t)

	body, contentType := multipartItem(t, map[string]string{"name": "chair", "price": "10", "category_id": "1"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	body, contentType = multipartFile(t, "splat", "scan.splat", []byte("splat bytes"))
	req = httptest.NewRequest(http.MethodPut, "/api/items/1/splat", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var item models.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	require.NotNil(t, item.Splat)
	assert.True(t, strings.HasSuffix(*item.Splat, ".splat"))

	// Wrong extension is rejected before touching storage.
	body, contentType = multipartFile(t, "splat", "scan.obj", []byte("x"))
	req = httptest.NewRequest(http.MethodPut, "/api/items/1/splat", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body, contentType = multipartFile(t, "splat", "scan.splat", []byte("x"))
	req = httptest.NewRequest(http.MethodPut, "/api/items/999/splat", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGraphQLCatalogQuery(t *testing.T) {
	h := testHandler(t)

	body, contentType := multipartItem(t, map[string]string{"name": "chair", "price": "10", "category_id": "1"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/items", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/api/graphql",
		strings.NewReader(`{"query":"{ items { id name price } }"}`))
	req2.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec2, req2)
	require.Equal(t, http.StatusOK, rec2.Code)

	var result struct {
		Data struct {
			Items []struct {
				ID    *int   `json:"id"`
				Name  string `json:"name"`
				Price int    `json:"price"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &result))
	require.Len(t, result.Data.Items, 1)
	assert.Equal(t, "chair", result.Data.Items[0].Name)
	assert.Equal(t, 10, result.Data.Items[0].Price)

	// The id comes from the embedded record key and must actually resolve.
	require.NotNil(t, result.Data.Items[0].ID)
	assert.Equal(t, 1, *result.Data.Items[0].ID)

	rec3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodPost, "/api/graphql",
		strings.NewReader(`{"query":"{ item(id: 1) { id name } categories { id name } }"}`))
	req3.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec3, req3)
	require.Equal(t, http.StatusOK, rec3.Code)

	var single struct {
		Data struct {
			Item struct {
				ID *int `json:"id"`
			} `json:"item"`
			Categories []struct {
				ID *int `json:"id"`
			} `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec3.Body.Bytes(), &single))
	require.NotNil(t, single.Data.Item.ID)
	assert.Equal(t, 1, *single.Data.Item.ID)
}
