package models

import "time"

type Role string

const (
	RoleCivitas   Role = "CIVITAS"
	RoleBendahara Role = "BENDAHARA"
	RoleKepsek    Role = "KEPSEK"
)

type User struct {
	ID           uint       `gorm:"primaryKey"              json:"id"`
	Name         string     `gorm:"size:180;not null"       json:"name"`
	Email        string     `gorm:"uniqueIndex;size:180"    json:"email"`
	PasswordHash string     `gorm:"size:255"                json:"-"` // jangan dikirim ke client
	Role         Role       `gorm:"size:20;not null;index"  json:"role"`
	IsActive     bool       `gorm:"default:true"            json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
