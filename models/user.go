package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string          `gorm:"size:320;unique;not null" json:"email"`
	HashedPassword string          `gorm:"not null" json:"-"` // Don't expose password in JSON
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Spots          []Spot          `json:"spots,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	GoshuinRecords []GoshuinRecord `json:"goshuin_records,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RefreshTokens  []RefreshToken  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
