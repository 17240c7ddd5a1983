package datascope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type doc struct {
	ID        string `gorm:"primaryKey"`
	Status    string
	CreatedBy string
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&doc{}))
	require.NoError(t, db.Create([]doc{
		{ID: "1", Status: "DRAFT", CreatedBy: "alice"},
		{ID: "2", Status: "DRAFT", CreatedBy: "bob"},
		{ID: "3", Status: "SENT", CreatedBy: "alice"},
		{ID: "4", Status: "SENT", CreatedBy: "bob"},
	}).Error)
	return db
}

func ids(docs []doc) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestPrivateDrafts(t *testing.T) {
	db := setupDB(t)

	var docs []doc
	require.NoError(t, db.Scopes(PrivateDrafts("DRAFT", "alice")).Order("id").Find(&docs).Error)
	assert.Equal(t, []string{"1", "3", "4"}, ids(docs))

	docs = nil
	require.NoError(t, db.Scopes(PrivateDrafts("DRAFT", "")).Order("id").Find(&docs).Error)
	assert.Equal(t, []string{"3", "4"}, ids(docs))
}

func TestOwnedBy(t *testing.T) {
	db := setupDB(t)

	var docs []doc
	require.NoError(t, db.Scopes(OwnedBy("bob")).Order("id").Find(&docs).Error)
	assert.Equal(t, []string{"2", "4"}, ids(docs))

	docs = nil
	require.NoError(t, db.Scopes(OwnedBy("")).Find(&docs).Error)
	assert.Len(t, docs, 4)
}

func TestCombinedScopes(t *testing.T) {
	db := setupDB(t)

	// bob with an own-scope grant sees only his rows, and alice's draft never
	var docs []doc
	require.NoError(t, db.Scopes(PrivateDrafts("DRAFT", "bob"), OwnedBy("bob")).Order("id").Find(&docs).Error)
	assert.Equal(t, []string{"2", "4"}, ids(docs))
}
