package database

import (
	"fmt"
	"log"
	"os"

	"github.com/opencoder/opencoder-api/model"
	"github.com/opencoder/opencoder-api/utils/auth"
	"gorm.io/gorm"
)

// RunSeeds executes all seeders against the given connection
func RunSeeds(db *gorm.DB) error {
	return NewSeeder(db).SeedAll()
}

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default superuser
func (s *Seeder) SeedAdminUser() error {
	// Check if a superuser already exists
	var count int64
	if err := s.db.Model(&model.User{}).Where("is_superuser = ?", true).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	// Get admin credentials from environment variables
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	// Hash password
	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		FullName:     "System Administrator",
		IsActive:     true,
		IsSuperuser:  true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}
