// Package orm wraps the shared gorm.DB in a small chainable query helper so
// repositories never touch gorm directly. Queries can be pointed at a
// different database (tests) via WithDB.
package orm

import (
	"time"

	"github.com/splatmarket/splatmarket/pkg/database"
	"gorm.io/gorm"
)

// Cacher is the read-through cache hook. Wired to pkg/cache at boot; nil
// means caching is disabled.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

var CacheStore Cacher

type Query struct {
	db *gorm.DB
}

func DB() *Query {
	return &Query{db: database.DB}
}

// WithDB builds a Query against an explicit gorm.DB (used by tests).
func WithDB(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

// Offset skips n records. Negative values reset to the default.
func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

// Limit caps the result set at n records.
func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Updates applies a partial update to all rows matched by the chain.
func (q *Query) Updates(values interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Cache runs Get through the read-through cache under key.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}

// Pagination describes an offset/limit window applied to a listing.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

const (
	// DefaultLimit is applied when a caller passes limit <= 0.
	DefaultLimit = 100
	maxLimit     = 1000
)

// Page normalises skip/limit query values into a Pagination window.
func Page(skip, limit int) Pagination {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Offset: skip, Limit: limit}
}

// Paginate applies the window to the query chain.
func (q *Query) Paginate(p Pagination) *Query {
	return q.Offset(p.Offset).Limit(p.Limit)
}
