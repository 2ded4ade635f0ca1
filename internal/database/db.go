package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// a single cabin is saved at a time; a small pool is enough
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const seatAssignmentsDDL = `CREATE TABLE IF NOT EXISTS seat_assignments (
	seq        INT UNSIGNED NOT NULL PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	is_economy BOOLEAN      NOT NULL,
	seat_row   INT          NOT NULL,
	col        INT          NOT NULL,
	is_grouped BOOLEAN      NOT NULL,
	group_name VARCHAR(255) NULL,
	seat_pref  CHAR(1)      NULL,
	UNIQUE KEY uq_seat (seat_row, col)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the seat_assignments table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, seatAssignmentsDDL)
	return err
}
