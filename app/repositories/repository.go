// Package repositories is the data access layer: one exported method per use
// case, each executing a single logical query or mutation. Repositories
// default to the shared connection but accept an explicit one for tests.
package repositories

import (
	"github.com/splatmarket/splatmarket/pkg/orm"
	"gorm.io/gorm"
)

type base struct {
	db *gorm.DB
}

func (b base) query() *orm.Query {
	if b.db != nil {
		return orm.WithDB(b.db)
	}
	return orm.DB()
}
