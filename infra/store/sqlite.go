package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/citadelmro/capplan/core/model"
	"github.com/citadelmro/capplan/core/repository"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists planning data to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures
// schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS projects (
        id TEXT PRIMARY KEY,
        category TEXT NOT NULL,
        number TEXT NOT NULL,
        customer TEXT,
        aircraft_model TEXT,
        scope TEXT,
        induction TEXT,
        delivery TEXT,
        hours TEXT,
        offsite INTEGER NOT NULL DEFAULT 0,
        UNIQUE(category, number)
    );
    CREATE TABLE IF NOT EXISTS departments (
        key TEXT PRIMARY KEY,
        name TEXT,
        headcount INTEGER NOT NULL DEFAULT 0
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("schema: %w (close: %v)", err, cerr)
		}
		return nil, fmt.Errorf("schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// ListProjects implements repository.Repository.
func (s *SQLiteStore) ListProjects(ctx context.Context, category model.Category) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, number, customer, aircraft_model, scope, induction, delivery, hours, offsite
         FROM projects WHERE category = ? ORDER BY number`, category.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Project
	for rows.Next() {
		var (
			p          model.Project
			ind, del   string
			hoursJSON  string
			offsiteInt int
		)
		if err := rows.Scan(&p.ID, &p.Number, &p.Customer, &p.AircraftModel, &p.Scope, &ind, &del, &hoursJSON, &offsiteInt); err != nil {
			return nil, err
		}
		p.Category = category
		p.Offsite = offsiteInt != 0
		// Unparseable dates stay zero; aggregation skips the record.
		p.Induction, _ = time.Parse(dateLayout, ind)
		p.Delivery, _ = time.Parse(dateLayout, del)
		p.Hours = map[string]float64{}
		if hoursJSON != "" {
			_ = json.Unmarshal([]byte(hoursJSON), &p.Hours)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListDepartments implements repository.Repository.
func (s *SQLiteStore) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, name, headcount FROM departments ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.Key, &d.Name, &d.Headcount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpsertProject inserts or replaces the project keyed by number within
// its category.
func (s *SQLiteStore) UpsertProject(ctx context.Context, p model.Project) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	hours, err := json.Marshal(p.Hours)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, category, number, customer, aircraft_model, scope, induction, delivery, hours, offsite)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(category, number) DO UPDATE SET
           customer=excluded.customer, aircraft_model=excluded.aircraft_model,
           scope=excluded.scope, induction=excluded.induction,
           delivery=excluded.delivery, hours=excluded.hours, offsite=excluded.offsite`,
		p.ID, p.Category.String(), p.Number, p.Customer, p.AircraftModel, p.Scope,
		p.Induction.Format(dateLayout), p.Delivery.Format(dateLayout), string(hours), boolToInt(p.Offsite))
	return err
}

// DeleteProject removes the project with the given number.
func (s *SQLiteStore) DeleteProject(ctx context.Context, category model.Category, number string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE category = ? AND number = ?`, category.String(), number)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceDataset swaps an entire category inside one transaction.
func (s *SQLiteStore) ReplaceDataset(ctx context.Context, category model.Category, projects []model.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE category = ?`, category.String()); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, p := range projects {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		hours, err := json.Marshal(p.Hours)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, category, number, customer, aircraft_model, scope, induction, delivery, hours, offsite)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, category.String(), p.Number, p.Customer, p.AircraftModel, p.Scope,
			p.Induction.Format(dateLayout), p.Delivery.Format(dateLayout), string(hours), boolToInt(p.Offsite)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveDepartments replaces the department set.
func (s *SQLiteStore) SaveDepartments(ctx context.Context, depts []model.Department) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM departments`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, d := range depts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO departments (key, name, headcount) VALUES (?, ?, ?)`,
			d.Key, d.Name, d.Headcount); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
