package persistence

import (
	"errors"
	"os"
	"strings"

	"github.com/jinzhu/gorm"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv reads DATABASE_DRIVER (default mysql) and
// DATABASE_URL, e.g. root:root@(127.0.0.1:3306)/cocina?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driverType := os.Getenv("DATABASE_DRIVER")
	if driverType == "" {
		driverType = "mysql"
	}
	driverArgs := os.Getenv("DATABASE_URL")
	if driverArgs == "" {
		return nil, errors.New("environment variable DATABASE_URL is not set")
	}
	return &DatabaseConfig{DriverType: driverType, DriverArgs: driverArgs}, nil
}

// PrepareMysqlDatabase creates the database named in driverArgs if absent,
// connecting without a schema selected.
func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.LastIndex(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql connection string: " + driverArgs)
	}
	baseArgs := driverArgs[:idx+1]
	databaseName := driverArgs[idx+1:]
	if q := strings.Index(databaseName, "?"); q >= 0 {
		databaseName = databaseName[:q]
	}
	if databaseName == "" {
		return errors.New("database name is missing in connection string")
	}

	db, err := gorm.Open("mysql", baseArgs)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName + " DEFAULT CHARACTER SET utf8mb4").Error
}
