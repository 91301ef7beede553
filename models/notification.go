package models

// UserNotification is a message shown to a user after a settlement. Written
// by the notifier worker, never inside the settlement transaction.
type UserNotification struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Viewed      bool   `gorm:"not null;default:false;index" json:"viewed"`

	Timestamps
}

// ManagerNotification is the back-office counterpart.
type ManagerNotification struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string `gorm:"type:uuid;index" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Tag         string `gorm:"type:varchar(64);index" json:"tag"`
	Viewed      bool   `gorm:"not null;default:false" json:"viewed"`

	Timestamps
}
