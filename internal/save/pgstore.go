package save

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/aldwake/PetGrotto_Go/internal/domain"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// PostgresStore persists snapshots in a saves table, one JSONB row per
// slot. The upsert makes each save all-or-nothing at the row level.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates the store over an existing pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(connString string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrationFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CheckHealth reports whether the database is reachable.
func (s *PostgresStore) CheckHealth(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Load reads and decodes a slot's snapshot.
func (s *PostgresStore) Load(ctx context.Context, slot string) (*domain.SaveData, error) {
	if !ValidSlot(slot) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}

	var raw []byte
	query := `SELECT data FROM saves WHERE slot = $1`
	err := s.db.QueryRow(ctx, query, slot).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: slot %s", domain.ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query save: %w", err)
	}

	var data domain.SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSaveCorrupt, err)
	}
	return &data, nil
}

// Save upserts a slot's snapshot.
func (s *PostgresStore) Save(ctx context.Context, slot string, data *domain.SaveData) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode save data: %w", err)
	}

	query := `
		INSERT INTO saves (slot, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, slot, raw); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// Delete removes a slot's snapshot.
func (s *PostgresStore) Delete(ctx context.Context, slot string) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidSaveSlot, slot)
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: slot %s", domain.ErrSaveNotFound, slot)
	}
	return nil
}

// List returns metadata for every occupied slot in display order.
func (s *PostgresStore) List(ctx context.Context) ([]domain.SaveMeta, error) {
	rows, err := s.db.Query(ctx, `SELECT slot, data FROM saves`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	bySlot := make(map[string]domain.SaveMeta)
	for rows.Next() {
		var slot string
		var raw []byte
		if err := rows.Scan(&slot, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan save row: %w", err)
		}
		var data domain.SaveData
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}
		bySlot[slot] = data.Meta
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read save rows: %w", err)
	}

	out := make([]domain.SaveMeta, 0, len(bySlot))
	for _, slot := range Slots() {
		if meta, ok := bySlot[slot]; ok {
			out = append(out, meta)
		}
	}
	return out, nil
}
