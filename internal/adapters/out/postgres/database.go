package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tracking/internal/adapters/out/postgres/checkpointrepo"
	"tracking/internal/adapters/out/postgres/unitrepo"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a lib/pq keyword/value connection string.
func DSN(host, port, user, password, dbName, sslMode string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode)
}

// Open connects through lib/pq so that driver errors surface as *pq.Error
// for pgerr.Translate.
func Open(dsn string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the units and checkpoints tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&unitrepo.UnitDTO{}, &checkpointrepo.CheckpointDTO{})
}

// Ping checks that the database accepts connections.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
