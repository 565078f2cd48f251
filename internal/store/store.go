// Shoal is a Redfish aggregator service.
// Copyright (C) 2025  Matthew Burns
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package store is an optional local sqlite-backed home for two things
// cmd/raidctl can use across invocations: saved connection profiles (so an
// operator doesn't retype a BMC's address/username/password every run) and
// an append-only audit log of apply/delete-all outcomes. Neither table
// caches Redfish resource state; the audit log records what an operation did,
// never what the hardware looked like, so it never feeds planning decisions.
// Migrations run as CREATE TABLE IF NOT EXISTS statements at Open rather
// than through a separate migration tool.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"raidctl/internal/secret"

	_ "modernc.org/sqlite"
)

// Store wraps a local sqlite database of connection profiles and audit
// records. The vault is nil when the caller never supplied a passphrase,
// in which case profile passwords are stored in plaintext.
type Store struct {
	conn  *sql.DB
	vault *secret.Vault
}

// Open opens (creating if necessary) the sqlite database at path and runs
// its migrations. vault may be nil.
func Open(ctx context.Context, path string, vault *secret.Vault) (*Store, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("store: ping %s: %w", path, err)
	}
	s := &Store{conn: conn, vault: vault}
	if err := s.migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			name TEXT PRIMARY KEY,
			endpoint TEXT NOT NULL,
			username TEXT NOT NULL,
			password TEXT,
			vendor TEXT,
			insecure_tls BOOLEAN DEFAULT false,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			correlation_id TEXT NOT NULL,
			profile_name TEXT,
			controller_hint TEXT,
			action TEXT NOT NULL,
			summary TEXT,
			outcome TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Profile is a saved set of connection coordinates for one BMC.
type Profile struct {
	Name        string
	Endpoint    string
	Username    string
	Password    string
	Vendor      string
	InsecureTLS bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaveProfile inserts or replaces the profile named p.Name, encrypting
// p.Password at rest when the Store was opened with a vault.
func (s *Store) SaveProfile(ctx context.Context, p *Profile) error {
	password := p.Password
	if s.vault != nil && password != "" {
		sealed, err := s.vault.Seal(password)
		if err != nil {
			return fmt.Errorf("store: seal profile password: %w", err)
		}
		password = sealed
	}
	query := `INSERT INTO profiles (name, endpoint, username, password, vendor, insecure_tls, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			endpoint = excluded.endpoint,
			username = excluded.username,
			password = excluded.password,
			vendor = excluded.vendor,
			insecure_tls = excluded.insecure_tls,
			updated_at = CURRENT_TIMESTAMP`
	if _, err := s.conn.ExecContext(ctx, query, p.Name, p.Endpoint, p.Username, password, p.Vendor, p.InsecureTLS); err != nil {
		return fmt.Errorf("store: save profile %s: %w", p.Name, err)
	}
	return nil
}

// GetProfile returns the profile named name, decrypting its password when
// the Store has a vault, or nil if no such profile exists.
func (s *Store) GetProfile(ctx context.Context, name string) (*Profile, error) {
	query := `SELECT name, endpoint, username, password, vendor, insecure_tls, created_at, updated_at
		FROM profiles WHERE name = ?`
	var p Profile
	var password string
	err := s.conn.QueryRowContext(ctx, query, name).Scan(
		&p.Name, &p.Endpoint, &p.Username, &password, &p.Vendor, &p.InsecureTLS, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get profile %s: %w", name, err)
	}
	if s.vault != nil && password != "" {
		opened, err := s.vault.Open(password)
		if err != nil {
			return nil, fmt.Errorf("store: open profile password: %w", err)
		}
		password = opened
	}
	p.Password = password
	return &p, nil
}

// ListProfiles returns every saved profile's coordinates, without passwords.
func (s *Store) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name, endpoint, username, vendor, insecure_tls, created_at, updated_at FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list profiles: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.Name, &p.Endpoint, &p.Username, &p.Vendor, &p.InsecureTLS, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteProfile removes the profile named name, if present.
func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name); err != nil {
		return fmt.Errorf("store: delete profile %s: %w", name, err)
	}
	return nil
}

// AuditRecord is one append-only entry describing the outcome of an
// ApplyRAIDConfiguration or DeleteAllRAIDConfiguration invocation. It never
// records hardware state, only the shape of the request and what happened.
type AuditRecord struct {
	CreatedAt      time.Time
	CorrelationID  string
	ProfileName    string
	ControllerHint string
	Action         string // "apply" or "delete_all"
	Summary        string // e.g. "3 logical disks requested"
	Outcome        string // "success" or "failure"
	Error          string
	Duration       time.Duration
}

// RecordAudit appends a record to the audit log. Failures to write are the
// caller's to decide whether to surface; this never blocks the operation it
// describes, which has already completed by the time it's called.
func (s *Store) RecordAudit(ctx context.Context, a *AuditRecord) error {
	query := `INSERT INTO audit_log
		(correlation_id, profile_name, controller_hint, action, summary, outcome, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.conn.ExecContext(ctx, query,
		a.CorrelationID, a.ProfileName, a.ControllerHint, a.Action, a.Summary, a.Outcome, a.Error, a.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("store: record audit: %w", err)
	}
	return nil
}

// ListAudit returns the most recent limit audit records, newest first.
func (s *Store) ListAudit(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT created_at, correlation_id, profile_name, controller_hint, action, summary, outcome, error, duration_ms
			FROM audit_log ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list audit: %w", err)
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		var a AuditRecord
		var durationMS int64
		if err := rows.Scan(&a.CreatedAt, &a.CorrelationID, &a.ProfileName, &a.ControllerHint,
			&a.Action, &a.Summary, &a.Outcome, &a.Error, &durationMS); err != nil {
			return nil, fmt.Errorf("store: scan audit record: %w", err)
		}
		a.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, a)
	}
	return out, rows.Err()
}
