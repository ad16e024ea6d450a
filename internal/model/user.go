// Package model defines database models and the transient show records
// assembled from the catalogs
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"default:false"` // Flipped once the email is verified
	CreatedAt    time.Time
}
