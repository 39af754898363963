package migration

import (
	"testing"

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
	return db
}

func withRegistry(t *testing.T, ms []Migration) {
	t.Helper()

	old := registry
	registry = ms
	t.Cleanup(func() { registry = old })
}

func tableMigration(name, table string) Migration {
	return Migration{
		Name: name,
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP TABLE " + table).Error
		},
	}
}

func TestRunAppliesOnce(t *testing.T) {
	db := testDB(t)
	withRegistry(t, []Migration{
		tableMigration("0001_widgets", "widgets"),
		tableMigration("0002_gadgets", "gadgets"),
	})

	ran, err := Run(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_widgets", "0002_gadgets"}, ran)

	assert.True(t, db.Migrator().HasTable("widgets"))
	assert.True(t, db.Migrator().HasTable("gadgets"))

	ran, err = Run(db)
	require.NoError(t, err)
	assert.Empty(t, ran)
}

func TestRollbackLastBatch(t *testing.T) {
	db := testDB(t)
	withRegistry(t, []Migration{tableMigration("0001_widgets", "widgets")})

	_, err := Run(db)
	require.NoError(t, err)

	withRegistry(t, []Migration{
		tableMigration("0001_widgets", "widgets"),
		tableMigration("0002_gadgets", "gadgets"),
	})
	_, err = Run(db)
	require.NoError(t, err)

	reverted, err := Rollback(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_gadgets"}, reverted)

	assert.True(t, db.Migrator().HasTable("widgets"))
	assert.False(t, db.Migrator().HasTable("gadgets"))

	statuses, err := StatusAll(db)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Applied)
	assert.False(t, statuses[1].Applied)
}
