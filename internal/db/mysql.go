package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"eagle/internal/model"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate creates or updates the schema. When reset is true all tables are dropped first.
func Migrate(db *gorm.DB, reset bool, log zerolog.Logger) error {
	tables := []interface{}{
		&model.Comment{},
		&model.Article{},
		&model.ContactMessage{},
		&model.Subscriber{},
		&model.User{},
	}

	if reset {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		for _, table := range tables {
			if err := db.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("drop table failed (may not exist)")
			}
		}
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
