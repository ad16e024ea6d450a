package model

import "time"

// VerificationToken is kept after a successful verification. Only its
// value is compared, it is never marked as used.
type VerificationToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"uniqueIndex;not null"` // One live token per account
	Token     string `gorm:"not null"`
	CreatedAt time.Time
}
