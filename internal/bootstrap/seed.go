package bootstrap

import (
	"errors"
	"log"

	"github.com/Justin66666/teachersLoungeBE/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.School{},
		&entity.User{},
		&entity.Community{},
		&entity.CommunityMember{},
		&entity.Post{},
		&entity.PostLike{},
		&entity.Comment{},
		&entity.Conversation{},
		&entity.Message{},
		&entity.Friend{},
		&entity.Mute{},
		&entity.Block{},
		&entity.PrivateSpace{},
		&entity.PrivateSpaceMember{},
		&entity.PrivateSpaceInvitation{},
		&entity.PrivateSpacePost{},
		&entity.PrivateSpacePostComment{},
	)
}

// SeedSchools guarantees the default school row that new accounts fall back to.
func SeedSchools(db *gorm.DB) error {
	var school entity.School
	err := db.First(&school, entity.DefaultSchoolID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var count int64
	if err := db.Model(&entity.School{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("school %d is missing but the table is not empty; new accounts need an explicit school", entity.DefaultSchoolID)
		return nil
	}

	// First row of a fresh sequence, so it receives DefaultSchoolID.
	return db.Create(&entity.School{Name: "Unaffiliated"}).Error
}

func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@teacherslounge.dev").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Email:     "admin@teacherslounge.dev",
		FirstName: "Lounge",
		LastName:  "Admin",
		Password:  string(hashedPasswordBytes),
		SchoolID:  entity.DefaultSchoolID,
		Role:      entity.RoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Email: admin@teacherslounge.dev")
	log.Println("   Password: admin123")

	return nil
}
