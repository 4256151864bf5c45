package media

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Entry is a persisted media lookup.
type Entry struct {
	Key          string    `db:"lookup_key" yaml:"key" json:"key"`
	ImageURL     string    `db:"image_url" yaml:"image_url,omitempty" json:"image_url,omitempty"`
	FullImageURL string    `db:"full_image_url" yaml:"full_image_url,omitempty" json:"full_image_url,omitempty"`
	WikiURL      string    `db:"wiki_url" yaml:"wiki_url,omitempty" json:"wiki_url,omitempty"`
	CreatedAt    time.Time `db:"created_at" yaml:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" yaml:"updated_at" json:"updated_at"`
}

func NewEntry(key string, info Info) *Entry {
	return &Entry{
		Key:          key,
		ImageURL:     info.ImageURL,
		FullImageURL: info.FullImageURL,
		WikiURL:      info.WikiURL,
	}
}

func (e Entry) Info() Info {
	return Info{
		ImageURL:     e.ImageURL,
		FullImageURL: e.FullImageURL,
		WikiURL:      e.WikiURL,
	}
}

//go:generate mockgen -source=store.go -destination=../mocks/media/mock_store.go -package=mock_media

// Store persists found media across processes.
type Store interface {
	FindAll(ctx context.Context) ([]Entry, error)
	// FindByKey returns nil when nothing is stored for key.
	FindByKey(ctx context.Context, key string) (*Entry, error)
	Upsert(ctx context.Context, entry *Entry) error
}

// DBStore implements Store using MySQL.
type DBStore struct {
	db *sqlx.DB
}

func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) FindAll(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries, "SELECT * FROM media_cache_entries ORDER BY lookup_key"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(media_cache_entries) > %w", err)
	}
	return entries, nil
}

func (s *DBStore) FindByKey(ctx context.Context, key string) (*Entry, error) {
	var entry Entry
	err := s.db.GetContext(ctx, &entry, "SELECT * FROM media_cache_entries WHERE lookup_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(media_cache_entry) > %w", err)
	}
	return &entry, nil
}

func (s *DBStore) Upsert(ctx context.Context, entry *Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO media_cache_entries (lookup_key, image_url, full_image_url, wiki_url)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE image_url = VALUES(image_url), full_image_url = VALUES(full_image_url), wiki_url = VALUES(wiki_url)`,
		entry.Key, entry.ImageURL, entry.FullImageURL, entry.WikiURL)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert media_cache_entry) > %w", err)
	}
	return nil
}

// FileStore implements Store with one JSON file per key in a directory.
type FileStore struct {
	rootDir string
	now     func() time.Time
}

func NewFileStore(directory string) *FileStore {
	return &FileStore{
		rootDir: directory,
		now:     time.Now,
	}
}

func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.rootDir, strings.ReplaceAll(key, string(filepath.Separator), "_")+".json")
}

func (s *FileStore) FindAll(ctx context.Context) ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(s.rootDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("filepath.Glob > %w", err)
	}
	sort.Strings(paths)

	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		entry, err := s.read(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (s *FileStore) FindByKey(ctx context.Context, key string) (*Entry, error) {
	path := s.filePath(key)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return s.read(path)
}

func (s *FileStore) Upsert(ctx context.Context, entry *Entry) error {
	if err := os.MkdirAll(s.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", s.rootDir, err)
	}

	stored := *entry
	now := s.now().UTC()
	if existing, err := s.FindByKey(ctx, entry.Key); err == nil && existing != nil {
		stored.CreatedAt = existing.CreatedAt
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	contents, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := os.WriteFile(s.filePath(entry.Key), contents, 0644); err != nil {
		return fmt.Errorf("os.WriteFile > %w", err)
	}
	return nil
}

func (s *FileStore) read(path string) (*Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(contents, &entry); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(%s) > %w", path, err)
	}
	return &entry, nil
}
