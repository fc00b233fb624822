package repositories

import (
	"fmt"
	"net"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/loggers"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dbs struct {
	Postgres *gorm.DB
}

var DBS Dbs

func Init() {
	initPostgres()
}

// initPostgres opens the PostgreSQL connection, bounds the pool and runs
// auto-migration.
func initPostgres() {
	host, port, err := net.SplitHostPort(configs.Configs.Postgres.Address)
	if err != nil {
		configs.Logger.Fatal("Invalid Postgres address", zap.Error(err))
		return
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s",
		host,
		configs.Configs.Postgres.Username,
		configs.Configs.Postgres.Password,
		configs.Configs.Postgres.Database,
		port,
	)

	var logLevel logger.LogLevel
	switch configs.Configs.Logs.LogLevel {
	case "DEBUG", "INFO":
		logLevel = logger.LogLevel(4)
	case "WARN":
		logLevel = logger.LogLevel(3)
	case "ERROR":
		logLevel = logger.LogLevel(2)
	default:
		logLevel = logger.LogLevel(1)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: loggers.NewZapGormLogger(logLevel, 200*time.Millisecond, false),
	})
	if err != nil {
		configs.Logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		return
	}

	// Bounded pool: callers past the limit queue on checkout rather than
	// fail, which is database/sql's default behavior.
	sqlDB, err := db.DB()
	if err != nil {
		configs.Logger.Fatal("Failed to access underlying connection pool", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(configs.Configs.Postgres.MaxOpenConns)
	sqlDB.SetMaxIdleConns(configs.Configs.Postgres.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrateInOrder(db); err != nil {
		configs.Logger.Fatal("Failed to migrate database", zap.Error(err))
		return
	}

	DBS.Postgres = db
	configs.Logger.Info("PostgreSQL connected successfully")
}

// AutoMigrateInOrder migrates models following their FK dependencies.
func AutoMigrateInOrder(db *gorm.DB) error {
	modelsInOrder := []interface{}{
		&models.User{},
		&models.Goal{},
		&models.UserProgress{},
		&models.Consultation{},
		&models.Content{},
		&models.Bookmark{},
		&models.UserSettings{},
	}

	for _, model := range modelsInOrder {
		if err := db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// Close drains and closes the connection pool. Called on shutdown.
func Close() {
	if DBS.Postgres == nil {
		return
	}
	sqlDB, err := DBS.Postgres.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		configs.Logger.Error("Error closing database connections", zap.Error(err))
		return
	}
	configs.Logger.Info("Database connections closed")
}
