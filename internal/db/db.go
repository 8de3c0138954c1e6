package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/huseyingedek/geras-api/internal/config"
	"github.com/huseyingedek/geras-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	gormLog := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLog = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormLog,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	if err := db.Exec(
		`UPDATE accounts SET timezone = ? WHERE timezone IS NULL OR timezone = ''`,
		cfg.Timezone,
	).Error; err != nil {
		log.Warn().Err(err).Msg("timezone backfill failed")
	}

	return db
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Staff{},
		&models.WorkingHours{},
		&models.Service{},
		&models.Client{},
		&models.Sale{},
		&models.Payment{},
		&models.Session{},
		&models.Appointment{},
		&models.AuditLog{},
	)
}
