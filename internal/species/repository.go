package species

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
)

//go:generate mockgen -source=repository.go -destination=../mocks/species/mock_repository.go -package=mock_species

// Repository persists the species list and observations.
type Repository interface {
	FindAll(ctx context.Context) ([]Species, error)
	// FindByID returns nil when no species has id.
	FindByID(ctx context.Context, id string) (*Species, error)
	Save(ctx context.Context, s Species) error
	AddObservation(ctx context.Context, o Observation) error
	FindObservations(ctx context.Context) ([]Observation, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

func (r *DBRepository) FindAll(ctx context.Context) ([]Species, error) {
	var list []Species
	if err := r.db.SelectContext(ctx, &list, "SELECT id, latin_name, name FROM species"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(species) > %w", err)
	}
	SortByName(list)
	return list, nil
}

func (r *DBRepository) FindByID(ctx context.Context, id string) (*Species, error) {
	var s Species
	err := r.db.GetContext(ctx, &s, "SELECT id, latin_name, name FROM species WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(species) > %w", err)
	}
	return &s, nil
}

func (r *DBRepository) Save(ctx context.Context, s Species) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO species (id, latin_name, name) VALUES (:id, :latin_name, :name)
		ON DUPLICATE KEY UPDATE latin_name = VALUES(latin_name), name = VALUES(name)`, s)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext(upsert species) > %w", err)
	}
	return nil
}

type observationRow struct {
	Observation
	Lat          sql.NullFloat64 `db:"lat"`
	Lng          sql.NullFloat64 `db:"lng"`
	LocationName sql.NullString  `db:"location_name"`
}

func (row observationRow) observation() Observation {
	o := row.Observation
	if row.Lat.Valid && row.Lng.Valid {
		o.Location = &Location{
			Lat:  row.Lat.Float64,
			Lng:  row.Lng.Float64,
			Name: row.LocationName.String,
		}
	}
	return o
}

func (r *DBRepository) AddObservation(ctx context.Context, o Observation) error {
	if err := o.Validate(); err != nil {
		return err
	}

	row := observationRow{Observation: o}
	if o.Location != nil {
		row.Lat = sql.NullFloat64{Float64: o.Location.Lat, Valid: true}
		row.Lng = sql.NullFloat64{Float64: o.Location.Lng, Valid: true}
		row.LocationName = sql.NullString{String: o.Location.Name, Valid: o.Location.Name != ""}
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO observations
		(species_id, seen_swe, seen_int, heard_swe, heard_int, ringed_swe, ringed_int, date, comment, lat, lng, location_name)
		VALUES (:species_id, :seen_swe, :seen_int, :heard_swe, :heard_int, :ringed_swe, :ringed_int, :date, :comment, :lat, :lng, :location_name)`,
		row)
	if err != nil {
		return fmt.Errorf("db.NamedExecContext(insert observation) > %w", err)
	}
	return nil
}

func (r *DBRepository) FindObservations(ctx context.Context) ([]Observation, error) {
	var rows []observationRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT id, species_id, seen_swe, seen_int, heard_swe, heard_int, ringed_swe, ringed_int, date, comment, lat, lng, location_name
		FROM observations ORDER BY date DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("db.SelectContext(observations) > %w", err)
	}

	observations := make([]Observation, 0, len(rows))
	for _, row := range rows {
		observations = append(observations, row.observation())
	}
	return observations, nil
}

type fileContents struct {
	Species      []Species     `yaml:"species"`
	Observations []Observation `yaml:"observations,omitempty"`
}

// FileRepository implements Repository with a single YAML file.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) read() (fileContents, error) {
	var contents fileContents

	file, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return contents, nil
	}
	if err != nil {
		return contents, fmt.Errorf("os.Open(%s) > %w", r.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&contents); err != nil {
		return contents, fmt.Errorf("yaml.NewDecoder().Decode(%s) > %w", r.path, err)
	}
	return contents, nil
}

func (r *FileRepository) write(contents fileContents) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	file, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", r.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(contents); err != nil {
		return fmt.Errorf("yaml.Encoder.Encode > %w", err)
	}
	return encoder.Close()
}

func (r *FileRepository) FindAll(ctx context.Context) ([]Species, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.read()
	if err != nil {
		return nil, err
	}
	SortByName(contents.Species)
	return contents.Species, nil
}

func (r *FileRepository) FindByID(ctx context.Context, id string) (*Species, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, s := range contents.Species {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *FileRepository) Save(ctx context.Context, s Species) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range contents.Species {
		if contents.Species[i].ID == s.ID {
			contents.Species[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		contents.Species = append(contents.Species, s)
	}
	return r.write(contents)
}

func (r *FileRepository) AddObservation(ctx context.Context, o Observation) error {
	if err := o.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.read()
	if err != nil {
		return err
	}
	contents.Observations = append(contents.Observations, o)
	return r.write(contents)
}

func (r *FileRepository) FindObservations(ctx context.Context) ([]Observation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := r.read()
	if err != nil {
		return nil, err
	}
	// newest first, matching DBRepository
	observations := make([]Observation, 0, len(contents.Observations))
	for i := len(contents.Observations) - 1; i >= 0; i-- {
		observations = append(observations, contents.Observations[i])
	}
	sortByDateDesc(observations)
	return observations, nil
}
