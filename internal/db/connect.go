// Package db provides store connection and schema migration.
package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a GORM connection for the configured backend. source is the
// sqlite file path or the MySQL DSN depending on driver.
func Open(driver, source string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch driver {
	case "", "sqlite":
		dial = sqlite.Open(source)
	case "mysql":
		dial = mysql.Open(source)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	gdb, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open %s store: %w", driver, err)
	}
	return gdb, nil
}
