// Package store is the backend's key-value persistence layer for folder
// records, file metadata and opaque blobs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// ErrDuplicate reports a unique-constraint violation, used for
// duplicate folder names within a parent.
var ErrDuplicate = errors.New("duplicate record")

// pgUniqueViolation is the Postgres error code for unique violations.
const pgUniqueViolation = "23505"

type FolderRecord struct {
	bun.BaseModel `bun:"table:finder_folders"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name" json:"name"`
	Color     string    `bun:"color" json:"color,omitempty"`
	ParentID  string    `bun:"parent_id" json:"parentId"`
	CreatedAt time.Time `bun:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at" json:"updatedAt"`
}

type FileRecord struct {
	bun.BaseModel `bun:"table:finder_files"`

	StorageKey string                 `bun:"storage_key,pk" json:"storageKey"`
	Metadata   map[string]interface{} `bun:"metadata,type:jsonb" json:"metadata"`
	CreatedAt  time.Time              `bun:"created_at" json:"-"`
	UpdatedAt  time.Time              `bun:"updated_at" json:"-"`
}

type KVRecord struct {
	bun.BaseModel `bun:"table:finder_kv"`

	Key       string          `bun:"key,pk"`
	Value     json.RawMessage `bun:"value,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

type Store struct {
	db *bun.DB

	Now func() time.Time
}

// New connects to Postgres and verifies the connection.
func New(dsn string) (*Store, error) {
	dbConn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &Store{
		db:  bun.NewDB(dbConn, pgdialect.New()),
		Now: time.Now,
	}, nil
}

// EnsureSchema creates the tables and the sibling-name uniqueness index.
func (s *Store) EnsureSchema(ctx context.Context) error {
	models := []interface{}{
		(*FolderRecord)(nil),
		(*FileRecord)(nil),
		(*KVRecord)(nil),
	}

	for _, model := range models {
		if _, err := s.db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS finder_folders_sibling_name
		 ON finder_folders (parent_id, lower(name))`); err != nil {
		return fmt.Errorf("create sibling name index: %w", err)
	}

	return nil
}

func (s *Store) ListFiles(ctx context.Context) ([]FileRecord, error) {
	var files []FileRecord
	if err := s.db.NewSelect().Model(&files).
		Order("created_at DESC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("scan file list: %w", err)
	}

	return files, nil
}

// UpsertFile writes file metadata, inserting or overwriting.
func (s *Store) UpsertFile(ctx context.Context, storageKey string, metadata map[string]interface{}) error {
	now := s.Now()
	record := &FileRecord{
		StorageKey: storageKey,
		Metadata:   metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (storage_key) DO UPDATE").
		Set("metadata = EXCLUDED.metadata").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("upsert file: %w", err)
	}

	return nil
}

// DeleteFile removes a file record, reporting whether it existed.
func (s *Store) DeleteFile(ctx context.Context, storageKey string) (bool, error) {
	res, err := s.db.NewDelete().
		Model((*FileRecord)(nil)).
		Where("storage_key = ?", storageKey).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete file: %w", err)
	}

	affected, _ := res.RowsAffected()

	return affected > 0, nil
}

// CreateFolder inserts a folder record. A sibling name collision yields
// ErrDuplicate.
func (s *Store) CreateFolder(ctx context.Context, record FolderRecord) (*FolderRecord, error) {
	now := s.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := s.db.NewInsert().
		Model(&record).
		Exec(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicate
		}

		return nil, fmt.Errorf("insert folder: %w", err)
	}

	return &record, nil
}

// UpdateFolder overwrites name, color and parent of an existing record.
func (s *Store) UpdateFolder(ctx context.Context, record FolderRecord) (*FolderRecord, error) {
	record.UpdatedAt = s.Now()

	res, err := s.db.NewUpdate().
		Model(&record).
		WherePK().
		Set("name = ?", record.Name).
		Set("color = ?", record.Color).
		Set("parent_id = ?", record.ParentID).
		Set("updated_at = ?", record.UpdatedAt).
		Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicate
		}

		return nil, fmt.Errorf("update folder: %w", err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, sql.ErrNoRows
	}

	return &record, nil
}

// DeleteFolder removes a folder record, reporting whether it existed.
func (s *Store) DeleteFolder(ctx context.Context, id string) (bool, error) {
	res, err := s.db.NewDelete().
		Model((*FolderRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}

	affected, _ := res.RowsAffected()

	return affected > 0, nil
}

// GetValue reads an opaque blob; missing keys yield (nil, nil).
func (s *Store) GetValue(ctx context.Context, key string) (json.RawMessage, error) {
	var record KVRecord
	if err := s.db.NewSelect().Model(&record).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("scan kv record: %w", err)
	}

	return record.Value, nil
}

// PutValue writes an opaque blob.
func (s *Store) PutValue(ctx context.Context, key string, value json.RawMessage) error {
	record := &KVRecord{
		Key:       key,
		Value:     value,
		UpdatedAt: s.Now(),
	}

	if _, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("upsert kv record: %w", err)
	}

	return nil
}
