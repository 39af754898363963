package services

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/app/repositories"
	"github.com/splatmarket/splatmarket/pkg/auth"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
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
	return db
}

// memDisk is an in-memory Disk for exercising the media service.
type memDisk struct {
	objects map[string][]byte
}

func newMemDisk() *memDisk {
	return &memDisk{objects: map[string][]byte{}}
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

func (d *memDisk) Delete(_ context.Context, key string) error {
	delete(d.objects, key)
	return nil
}

func (d *memDisk) Exists(_ context.Context, key string) (bool, error) {
	_, ok := d.objects[key]
	return ok, nil
}

func (d *memDisk) URL(key string) string {
	return "https://3d-modeling-mall.s3.amazonaws.com/" + key
}

func TestJoinDuplicateEmailConflicts(t *testing.T) {
	db := testDB(t)
	accounts := NewAccountService(repositories.NewUserRepository(db), auth.PlainVerifier{})

	user, err := accounts.Join("a@x.com", "p")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = accounts.Join("a@x.com", "other")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	db := testDB(t)
	accounts := NewAccountService(repositories.NewUserRepository(db), auth.PlainVerifier{})

	_, err := accounts.Join("a@x.com", "right")
	require.NoError(t, err)

	_, wrongPass := accounts.Login("a@x.com", "wrong")
	_, noUser := accounts.Login("missing@x.com", "right")
	assert.ErrorIs(t, wrongPass, ErrUnauthorized)
	assert.ErrorIs(t, noUser, ErrUnauthorized)
	assert.Equal(t, wrongPass.Error(), noUser.Error())

	user, err := accounts.Login("a@x.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestMediaStoreImageRoundTrip(t *testing.T) {
	disk := newMemDisk()
	media := NewMediaService(disk)

	payload := []byte("png bytes")
	url, err := media.Store(context.Background(), KindImage, "chair.png", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://3d-modeling-mall.s3.amazonaws.com/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rc, err := media.Fetch(context.Background(), url)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMediaStoreVideoZipWraps(t *testing.T) {
	disk := newMemDisk()
	media := NewMediaService(disk)

	payload := []byte("mp4 bytes")
	url, err := media.Store(context.Background(), KindVideo, "capture.mp4", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".zip"))

	key := KeyFromURL(url)
	archive := disk.objects[key]
	require.NotEmpty(t, archive)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "capture.mp4", zr.File[0].Name)

	entry, err := zr.File[0].Open()
	require.NoError(t, err)
	got, err := io.ReadAll(entry)
	require.NoError(t, err)
	entry.Close()
	assert.Equal(t, payload, got)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "a1b2c3", Stem("https://bucket.s3.amazonaws.com/a1b2c3.zip"))
	assert.Equal(t, "capture", Stem("capture.mp4.zip"))
	assert.Equal(t, "plain", Stem("plain"))
}

func TestPlaceOrderDoesNotMutateItemPrice(t *testing.T) {
	db := testDB(t)
	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	orders := NewOrderService(repositories.NewOrderRepository(db), users, items)

	user := models.User{Email: "a@x.com", Password: "p"}
	require.NoError(t, users.Create(&user))

	item := models.Item{Name: "chair", Price: 10}
	require.NoError(t, items.Create(&item))

	order, err := orders.Place(user.ID, item.ID, 3, false)
	require.NoError(t, err)
	assert.Equal(t, 10, order.Price)
	assert.Equal(t, 3, order.Count)
	assert.Equal(t, 30, order.Total())
	assert.False(t, order.Pay)

	fresh, err := items.Find(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Price)
}

func TestPlaceOrderMissingParents(t *testing.T) {
	db := testDB(t)
	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	orders := NewOrderService(repositories.NewOrderRepository(db), users, items)

	user := models.User{Email: "a@x.com", Password: "p"}
	require.NoError(t, users.Create(&user))

	_, err := orders.Place(9999, 1, 1, false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = orders.Place(user.ID, 9999, 1, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrdersByMissingParent(t *testing.T) {
	db := testDB(t)
	users := repositories.NewUserRepository(db)
	items := repositories.NewItemRepository(db)
	orders := NewOrderService(repositories.NewOrderRepository(db), users, items)

	_, err := orders.ByUser(42, orm.Page(0, 0))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = orders.ByItem(42, orm.Page(0, 0))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewRequiresItem(t *testing.T) {
	db := testDB(t)
	catalog := NewCatalogService(
		repositories.NewItemRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewReviewRepository(db),
		NewMediaService(newMemDisk()),
	)

	_, err := catalog.CreateReview(42, &models.Review{Content: "x", Star: 5, UserID: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	item, err := catalog.CreateItem(context.Background(), NewItemInput{Name: "chair", Price: 10})
	require.NoError(t, err)

	review, err := catalog.CreateReview(item.ID, &models.Review{Content: "x", Star: 5, UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, item.ID, review.ItemID)
}
