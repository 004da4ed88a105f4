package database

import (
	"fmt"
	"time"

	"stocklease/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const (
	maxConnectAttempts = 10
	connectRetryDelay  = 2 * time.Second
)

// Init connects to postgres, retrying while the database container comes up, then migrates.
func Init(dsn string) {
	var err error

	for i := 1; i <= maxConnectAttempts; i++ {
		log.Info().Int("attempt", i).Int("max_attempts", maxConnectAttempts).Msg("connecting to database")

		DB, err = Open(postgres.Open(dsn))
		if err == nil {
			log.Info().Msg("connected to database")
			break
		}

		log.Warn().Err(err).Msg("failed to connect to database")
		time.Sleep(connectRetryDelay)
	}

	if err != nil {
		log.Fatal().Err(err).Int("attempts", maxConnectAttempts).Msg("giving up on database connection")
	}

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}
}

// Open opens a gorm handle with the dialector; tests pass a sqlmock-backed one.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Lease{},
		&models.ActivityLog{},
	)
}

// MinPasswordLen is the shortest password an account may be created with.
const MinPasswordLen = 8

// EnsureAdmin creates the bootstrap admin account when no admin exists yet.
func EnsureAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("create default admin: password must be at least %d characters", MinPasswordLen)
	}

	if _, err := CreateUser(db, username, password, models.RoleAdmin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	log.Info().Str("username", username).Msg("created default admin user")
	return nil
}

// CreateUser hashes the password and inserts the account.
func CreateUser(db *gorm.DB, username, password string, role models.UserRole) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
