// Package db provides the PostgreSQL connection used when the airport
// dataset is loaded from a database table instead of a CSV file.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/SebInfo/AeroportsProches/config"
)

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	db *sql.DB
}

// AirportRow is one row of the airports table. Coordinates are nullable in
// the schema; rows without them are skipped by the dataset loader.
type AirportRow struct {
	Code      string
	Name      string
	Kind      string
	Country   string
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// GetDB returns the underlying database connection
func (p *PostgresDB) GetDB() *sql.DB {
	return p.db
}

// InitSchema initializes the database schema
func (p *PostgresDB) InitSchema() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS airports (
			code VARCHAR(8) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			kind VARCHAR(32) NOT NULL,
			country VARCHAR(2),
			latitude DECIMAL(10, 6),
			longitude DECIMAL(10, 6)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create airports table: %w", err)
	}
	return nil
}

// QueryAirports reads every airport row from the airports table.
func (p *PostgresDB) QueryAirports(ctx context.Context) ([]AirportRow, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT code, name, kind, COALESCE(country, ''), latitude, longitude FROM airports")
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var out []AirportRow
	for rows.Next() {
		var r AirportRow
		if err := rows.Scan(&r.Code, &r.Name, &r.Kind, &r.Country, &r.Latitude, &r.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan airport row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating airport rows: %w", err)
	}
	return out, nil
}
