package database

import (
	"fmt"

	"slab-app/config"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. The driver is selected by
// DB_DRIVER: sqlite keeps the whole store in a single file next to the
// binary, postgres and mysql are for shared deployments.
func Open() (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)

	switch config.DBDriver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(config.DBName+".db"), gormCfg)
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBName, config.DBPort)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", config.DBDriver)
	}

	if err != nil {
		log.Error().Err(err).Str("driver", config.DBDriver).Msg("Error connecting to database")
		return nil, err
	}

	log.Info().Str("driver", config.DBDriver).Str("name", config.DBName).Msg("Connected to database")
	return db, nil
}
