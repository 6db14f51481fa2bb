package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLReferenceRepository implements ReferenceRepository using MySQL.
// The condition column is named item_condition because CONDITION is a
// reserved word in MySQL.
type MySQLReferenceRepository struct {
	*sqlReferenceRepository
}

// NewMySQLReferenceRepository connects to MySQL.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLReferenceRepository(dsn string) (*MySQLReferenceRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := execAll(ctx, db,
		`CREATE TABLE IF NOT EXISTS reference_sales (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			brand VARCHAR(128) NOT NULL,
			category VARCHAR(128) NOT NULL DEFAULT '',
			original_price DOUBLE NOT NULL DEFAULT 0,
			sold_price DOUBLE NOT NULL DEFAULT 0,
			days_to_sell INT NOT NULL DEFAULT 0,
			item_condition VARCHAR(64) NOT NULL DEFAULT '',
			size VARCHAR(32) NOT NULL DEFAULT '',
			INDEX idx_reference_brand (brand),
			INDEX idx_reference_category (category)
		) DEFAULT CHARSET=utf8mb4`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[MySQLReferenceRepository] Initialized")
	return &MySQLReferenceRepository{
		sqlReferenceRepository: &sqlReferenceRepository{db: db, dialect: questionDialect("mysql")},
	}, nil
}

var _ ReferenceRepository = (*MySQLReferenceRepository)(nil)
