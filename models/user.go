package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the local snapshot of marketplace user data this service needs.
// Identity itself is owned by the gateway/profile service.
type User struct {
	ID                string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name              string  `gorm:"type:varchar(128)" json:"name"`
	Email             string  `gorm:"type:varchar(128);index" json:"email,omitempty"`
	Avatar            string  `gorm:"type:text" json:"avatar,omitempty"`
	Address           string  `gorm:"type:varchar(128)" json:"address,omitempty"` // on-chain receive address
	ReferralCodeCount int     `gorm:"not null;default:0" json:"referral_code_count"`
	PushToken         *string `gorm:"type:text" json:"-"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
