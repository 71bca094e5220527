package database

import (
	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedZones inserts the fixed venue catalog, skipping zones that already
// exist so runtime "other" zones are preserved.
func SeedZones(db *gorm.DB) error {
	for _, zone := range models.DefaultZones {
		var count int64
		if err := db.Model(&models.Zone{}).Where("id = ?", zone.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&zone).Error; err != nil {
			return err
		}
	}
	utils.InfoLogger.Println("Zone catalog seeded")
	return nil
}

type seedUser struct {
	Username    string
	Password    string
	Role        string
	DisplayName string
}

var defaultUsers = []seedUser{
	{Username: "admin", Password: "adminadmin", Role: models.RoleAdmin, DisplayName: "Администратор"},
	{Username: "person", Password: "personperson", Role: models.RoleStaff, DisplayName: "Сотрудник"},
}

// SeedUsers inserts the static user registry with bcrypt-hashed
// passwords. Existing usernames are left untouched.
func SeedUsers(db *gorm.DB) error {
	for _, su := range defaultUsers {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", su.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		displayName := su.DisplayName
		user := models.User{
			Username:    su.Username,
			Password:    string(hashed),
			Role:        su.Role,
			DisplayName: &displayName,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded user %s (role=%s)", user.Username, user.Role)
	}
	return nil
}
