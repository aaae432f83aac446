package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientAlbum is the photographer-created gallery a client orders from.
type ClientAlbum struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientName  string    `gorm:"column:client_name;not null"`
	ClientEmail *string   `gorm:"column:client_email"`
	ClientPhone *string   `gorm:"column:client_phone"`
	Designs     []Design  `gorm:"foreignKey:ClientAlbumID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
