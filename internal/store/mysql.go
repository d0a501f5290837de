package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore mirrors the snapshot model in three tables. It exists for sites
// that run several kiosks against one database; snapshot saves replace the
// table contents in a transaction, which is fine at roster/history scale
// (low hundreds of rows).
type MySQLStore struct {
	db *sql.DB
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kiosk_staff (
		staff_id    VARCHAR(64) PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		role        VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT,
		photo       MEDIUMTEXT,
		preloaded   TINYINT(1) NOT NULL DEFAULT 0,
		created_at  VARCHAR(40) NOT NULL DEFAULT '',
		position    INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS kiosk_history (
		record_id  VARCHAR(64) PRIMARY KEY,
		staff_id   VARCHAR(64) NOT NULL,
		staff_name VARCHAR(255) NOT NULL,
		role       VARCHAR(255) NOT NULL DEFAULT '',
		ts         VARCHAR(40) NOT NULL,
		date_str   VARCHAR(40) NOT NULL DEFAULT '',
		time_str   VARCHAR(40) NOT NULL DEFAULT '',
		direction  VARCHAR(8) NOT NULL,
		status     VARCHAR(32) NOT NULL DEFAULT '',
		method     VARCHAR(32) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS kiosk_settings (
		id          TINYINT PRIMARY KEY,
		webhook_url TEXT
	)`,
}

// NewMySQLStore opens a connection pool and runs the schema migrations.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	if dsn == "" {
		return nil, errors.New("MySQL DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return &MySQLStore{db: db}, nil
}

// Load reads the full snapshot. Individually unreadable rows are skipped so
// one bad row cannot block startup.
func (s *MySQLStore) Load(ctx context.Context) (*State, error) {
	state := &State{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT staff_id, name, role, description, photo, preloaded, created_at
		 FROM kiosk_staff ORDER BY position, staff_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var st Staff
		var desc, photo sql.NullString
		if err := rows.Scan(&st.ID, &st.Name, &st.Role, &desc, &photo, &st.Preloaded, &st.CreatedAt); err != nil {
			continue
		}
		st.Description = desc.String
		st.PhotoBase64 = photo.String
		state.Staff = append(state.Staff, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read staff rows: %w", err)
	}

	hrows, err := s.db.QueryContext(ctx,
		`SELECT record_id, staff_id, staff_name, role, ts, date_str, time_str, direction, status, method
		 FROM kiosk_history ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer hrows.Close()
	for hrows.Next() {
		var r AttendanceRecord
		if err := hrows.Scan(&r.ID, &r.StaffID, &r.StaffName, &r.Role, &r.Timestamp,
			&r.Date, &r.Time, &r.Direction, &r.Status, &r.Method); err != nil {
			continue
		}
		state.History = append(state.History, r)
	}
	if err := hrows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	var url sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT webhook_url FROM kiosk_settings WHERE id = 1`).Scan(&url)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	state.Settings.WebhookURL = url.String

	return state, nil
}

// SaveStaff replaces the roster snapshot in one transaction.
func (s *MySQLStore) SaveStaff(ctx context.Context, staff []Staff) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kiosk_staff`); err != nil {
			return err
		}
		for i, st := range staff {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO kiosk_staff (staff_id, name, role, description, photo, preloaded, created_at, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				st.ID, st.Name, st.Role, st.Description, st.PhotoBase64, st.Preloaded, st.CreatedAt, i)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveHistory replaces the attendance history snapshot in one transaction.
func (s *MySQLStore) SaveHistory(ctx context.Context, records []AttendanceRecord) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kiosk_history`); err != nil {
			return err
		}
		for _, r := range records {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO kiosk_history (record_id, staff_id, staff_name, role, ts, date_str, time_str, direction, status, method)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				r.ID, r.StaffID, r.StaffName, r.Role, r.Timestamp, r.Date, r.Time, r.Direction, r.Status, r.Method)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveSettings upserts the single settings row.
func (s *MySQLStore) SaveSettings(ctx context.Context, settings Settings) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kiosk_settings (id, webhook_url) VALUES (1, ?)
		 ON DUPLICATE KEY UPDATE webhook_url = VALUES(webhook_url)`,
		settings.WebhookURL)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *MySQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *MySQLStore) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}
