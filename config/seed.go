package config

import (
	"github.com/eufratt/EduLedger/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedUsers membuat satu akun demo per role kalau belum ada.
func SeedUsers() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	users := []models.User{
		{Name: "Civitas", Email: "civitas@demo.id", Role: models.RoleCivitas},
		{Name: "Bendahara", Email: "bendahara@demo.id", Role: models.RoleBendahara},
		{Name: "Kepsek", Email: "kepsek@demo.id", Role: models.RoleKepsek},
	}
	for _, u := range users {
		var cnt int64
		DB.Model(&models.User{}).Where("email = ?", u.Email).Count(&cnt)
		if cnt == 0 {
			u.PasswordHash = string(hash)
			u.IsActive = true
			DB.Create(&u)
		}
	}
}
