package config

import (
	"fmt"
	"time"

	"foodgram/internal/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(dbType string) (gorm.Dialector, error) {
	switch dbType {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_NAME"),
			utils.GetConfig("DB_PORT"),
		)
		return postgres.Open(dsn), nil

	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_PORT"),
			utils.GetConfig("DB_NAME"),
		)
		return mysql.Open(dsn), nil

	case "sqlite":
		// DB_NAME is the database file path
		return sqlite.Open(utils.GetConfig("DB_NAME") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil

	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_PORT"),
			utils.GetConfig("DB_NAME"),
		)
		return sqlserver.Open(dsn), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func ConnectDB() (*gorm.DB, error) {
	dbType := utils.GetConfig("DB_TYPE")
	d, err := dialector(dbType)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	maxConns := utils.GetConfigInt("DB_MAX_CONNS", 10)
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(max(maxConns/2, 1))
	sqlDB.SetConnMaxLifetime(time.Hour)

	utils.Log.WithField("dialect", dbType).Info("connected to database")
	return db, nil
}

func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
