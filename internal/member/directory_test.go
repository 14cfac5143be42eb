package member

import (
	"testing"

	"discord-wallet-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) *Directory {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Member{}))
	return NewDirectory(db)
}

func TestDirectory_RegisterAndLookup(t *testing.T) {
	d := setupTest(t)

	assert.False(t, d.Exists("m1"))
	_, err := d.Get("m1")
	assert.ErrorIs(t, err, models.ErrMemberNotFound)

	m, err := d.Register("m1", "alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", m.Name)
	assert.False(t, m.JoinedAt.IsZero())

	assert.True(t, d.Exists("m1"))
	got, err := d.Get("m1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
}

func TestDirectory_RegisterTwice(t *testing.T) {
	d := setupTest(t)

	_, err := d.Register("m1", "alice")
	assert.NoError(t, err)

	_, err = d.Register("m1", "alice")
	assert.ErrorIs(t, err, models.ErrMemberExists)
}
