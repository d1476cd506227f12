package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"workforce-portal/configs"
	"workforce-portal/internal/store"
)

// ConnectDB opens the PostgreSQL database named dbName.
func ConnectDB(cfg configs.Config, dbName string) (*sql.DB, error) {
	psqlconn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, dbName)
	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// OpenStore connects the document store selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg configs.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case configs.DriverMongo:
		client, err := ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store.NewMongo(client, cfg.DBName), nil
	case configs.DriverPostgres:
		db, err := ConnectDB(cfg, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return store.NewPostgres(db), nil
	case configs.DriverMemory:
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
