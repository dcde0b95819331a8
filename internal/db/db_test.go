package db

import (
	"path/filepath"
	"testing"

	"sekolahku/internal/config"
	"sekolahku/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestOpenSqliteAndSeed(t *testing.T) {
	cfg := &config.Config{
		DBDriver:      "sqlite",
		DatabaseURL:   filepath.Join(t.TempDir(), "seed.db"),
		AdminEmail:    "admin@sekolah.sch.id",
		AdminPassword: "rahasia123",
	}

	db, err := Open(cfg)
	require.NoError(t, err)

	Seed(db, cfg)
	Seed(db, cfg) // idempotent

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("rahasia123")))

	var articles int64
	db.Model(&models.Article{}).Count(&articles)
	assert.Equal(t, int64(3), articles)
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor("mongodb", "x")
	assert.Error(t, err)

	assert.Equal(t, "a.db?_foreign_keys=on&_busy_timeout=5000", SqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=ro", SqliteDSN("a.db?mode=ro"))
}
