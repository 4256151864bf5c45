package species

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_FindAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, latin_name, name FROM species")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "latin_name", "name"}).
			AddRow("cygnus-olor", "cygnus olor", "knölsvan").
			AddRow("sula-nebouxii", "sula nebouxii", "blåfotad sula"))

	got, err := repo.FindAll(context.Background())
	require.NoError(t, err)

	want := []Species{
		{ID: "sula-nebouxii", LatinName: "sula nebouxii", Name: "blåfotad sula"},
		{ID: "cygnus-olor", LatinName: "cygnus olor", Name: "knölsvan"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindAll() mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_FindByID(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *Species
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, latin_name, name FROM species WHERE id = ?")).
					WithArgs("cygnus-olor").
					WillReturnRows(sqlmock.NewRows([]string{"id", "latin_name", "name"}).
						AddRow("cygnus-olor", "cygnus olor", "knölsvan"))
			},
			want: &Species{ID: "cygnus-olor", LatinName: "cygnus olor", Name: "knölsvan"},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, latin_name, name FROM species WHERE id = ?")).
					WithArgs("cygnus-olor").
					WillReturnRows(sqlmock.NewRows([]string{"id", "latin_name", "name"}))
			},
		},
		{
			name: "query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, latin_name, name FROM species WHERE id = ?")).
					WithArgs("cygnus-olor").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindByID(context.Background(), "cygnus-olor")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Save(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO species (id, latin_name, name) VALUES (?, ?, ?)")).
		WithArgs("cygnus-olor", "cygnus olor", "knölsvan").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), Species{ID: "cygnus-olor", LatinName: "cygnus olor", Name: "knölsvan"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_AddObservation(t *testing.T) {
	tests := []struct {
		name        string
		observation Observation
		setupMock   func(mock sqlmock.Sqlmock)
		wantErr     bool
	}{
		{
			name: "with location",
			observation: Observation{
				SpeciesID: "cygnus-olor",
				SeenSwe:   true,
				Date:      "2025-05-01",
				Comment:   "pair with cygnets",
				Location:  &Location{Lat: 55.39, Lng: 12.82, Name: "Falsterbo, Sverige"},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO observations")).
					WithArgs("cygnus-olor", true, false, false, false, false, false, "2025-05-01", "pair with cygnets",
						55.39, 12.82, "Falsterbo, Sverige").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name:        "without location",
			observation: Observation{SpeciesID: "cygnus-olor", HeardSwe: true},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO observations")).
					WithArgs("cygnus-olor", false, false, true, false, false, false, "", "", nil, nil, nil).
					WillReturnResult(sqlmock.NewResult(2, 1))
			},
		},
		{
			name:        "invalid observation is not written",
			observation: Observation{SpeciesID: "cygnus-olor"},
			setupMock:   func(mock sqlmock.Sqlmock) {},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			err := repo.AddObservation(context.Background(), tt.observation)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindObservations(t *testing.T) {
	repo, mock := newMockRepository(t)
	columns := []string{"id", "species_id", "seen_swe", "seen_int", "heard_swe", "heard_int", "ringed_swe", "ringed_int",
		"date", "comment", "lat", "lng", "location_name"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM observations ORDER BY date DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "cygnus-olor", true, false, false, false, false, false, "2025-05-01", "", 55.39, 12.82, "Falsterbo").
			AddRow(1, "sula-nebouxii", false, true, false, false, false, false, "2024-02-10", "galápagos", nil, nil, nil))

	got, err := repo.FindObservations(context.Background())
	require.NoError(t, err)

	want := []Observation{
		{
			ID:        2,
			SpeciesID: "cygnus-olor",
			SeenSwe:   true,
			Date:      "2025-05-01",
			Location:  &Location{Lat: 55.39, Lng: 12.82, Name: "Falsterbo"},
		},
		{
			ID:        1,
			SpeciesID: "sula-nebouxii",
			SeenInt:   true,
			Date:      "2024-02-10",
			Comment:   "galápagos",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindObservations() mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "species.yml")
	repo := NewFileRepository(path)

	got, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	swan := Species{ID: "cygnus-olor", LatinName: "cygnus olor", Name: "knölsvan"}
	booby := Species{ID: "sula-nebouxii", LatinName: "sula nebouxii", Name: "blåfotad sula"}
	require.NoError(t, repo.Save(ctx, swan))
	require.NoError(t, repo.Save(ctx, booby))

	renamed := swan
	renamed.Name = "knölsvan (tam)"
	require.NoError(t, repo.Save(ctx, renamed))

	got, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Species{booby, renamed}, got)

	found, err := repo.FindByID(ctx, "sula-nebouxii")
	require.NoError(t, err)
	assert.Equal(t, &booby, found)

	missing, err := repo.FindByID(ctx, "pica-pica")
	require.NoError(t, err)
	assert.Nil(t, missing)

	older := Observation{SpeciesID: "sula-nebouxii", SeenInt: true, Date: "2024-02-10"}
	newer := Observation{SpeciesID: "cygnus-olor", SeenSwe: true, Date: "2025-05-01", Location: &Location{Lat: 55.39, Lng: 12.82}}
	require.NoError(t, repo.AddObservation(ctx, newer))
	require.NoError(t, repo.AddObservation(ctx, older))
	assert.Error(t, repo.AddObservation(ctx, Observation{SpeciesID: "cygnus-olor"}))

	observations, err := repo.FindObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Observation{newer, older}, observations)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "latin_name: cygnus olor")
}

func TestFileRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yml")
	require.NoError(t, os.WriteFile(path, []byte("species: [[["), 0644))

	_, err := NewFileRepository(path).FindAll(context.Background())
	assert.Error(t, err)
}
