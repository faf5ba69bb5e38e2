package main

import (
	"fmt"
	"log/slog"

	"meudinheiro/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// initDB opens the database and runs migrations. A Postgres DSN in
// DB_DSN takes precedence; without one the sqlite file at DB_PATH is
// used, which is how the app runs locally.
func initDB(cfg Config) error {
	var err error
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if cfg.DBDSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.DBDSN), gormCfg)
	} else {
		// _fk=1 turns on sqlite foreign key enforcement
		db, err = gorm.Open(sqlite.Open("file:"+cfg.DBPath+"?_fk=1"), gormCfg)
	}
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	return migrateDB()
}

// migrateDB migrates models individually so a failure on one doesn't
// block others. Users go first so the ownership FKs can be applied.
func migrateDB() error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := db.AutoMigrate(&models.Category{}); err != nil {
		slog.Warn("migration warning (categories)", "error", err)
	}
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		slog.Warn("migration warning (transactions)", "error", err)
	}
	if err := db.AutoMigrate(&models.Person{}); err != nil {
		slog.Warn("migration warning (people)", "error", err)
	}
	if err := db.AutoMigrate(&models.CardPurchase{}); err != nil {
		slog.Warn("migration warning (card_purchases)", "error", err)
	}
	return nil
}
