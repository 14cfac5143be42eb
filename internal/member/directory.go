package member

import (
	"errors"
	"fmt"
	"time"

	"discord-wallet-bot-go/internal/models"

	"gorm.io/gorm"
)

// Directory answers membership questions for the rest of the bot. It is the
// only component that writes member rows.
type Directory struct {
	db *gorm.DB
}

// NewDirectory creates a member directory backed by the given database.
func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// Exists reports whether a member with the given id is registered.
func (d *Directory) Exists(id string) bool {
	var count int64
	d.db.Model(&models.Member{}).Where("id = ?", id).Count(&count)
	return count > 0
}

// Get fetches a member by id.
func (d *Directory) Get(id string) (*models.Member, error) {
	var m models.Member
	if err := d.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to load member %s: %w", id, err)
	}
	return &m, nil
}

// Register creates a new member. Registering an existing id fails with
// ErrMemberExists.
func (d *Directory) Register(id, name string) (*models.Member, error) {
	if d.Exists(id) {
		return nil, models.ErrMemberExists
	}

	m := models.Member{ID: id, Name: name, JoinedAt: time.Now()}
	if err := d.db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to register member %s: %w", id, err)
	}
	return &m, nil
}
