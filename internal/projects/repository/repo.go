package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects on Postgres.
type ProjectRepository struct {
	db *sql.DB
}

var _ Repository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const createTable = `
CREATE TABLE IF NOT EXISTS projects (
    seq             BIGSERIAL,
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    type            TEXT NOT NULL,
    area_ha         DOUBLE PRECISION NOT NULL,
    duration_months INTEGER NOT NULL,
    location        TEXT NOT NULL DEFAULT '',
    intensity       INTEGER NOT NULL
);
`

// Init creates the projects table if it does not exist.
func (r *ProjectRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return &domain.StorageError{Op: "init", Err: err}
	}
	return nil
}

// Create inserts a new project.
func (r *ProjectRepository) Create(ctx context.Context, p domain.Project) error {
	const q = `
INSERT INTO projects (id, name, type, area_ha, duration_months, location, intensity)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Name, string(p.Type), p.AreaHa, p.DurationMonths, p.Location, p.Intensity)
	if err == nil {
		return nil
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		logging.NewLogger(ctx).LogWarnf("create_project", "attempt to create project with existing id: %s", p.ID)
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, p.ID)
	}
	return &domain.StorageError{Op: "create", Err: err}
}

// ReadAll returns all projects in insertion order.
func (r *ProjectRepository) ReadAll(ctx context.Context) []domain.Project {
	const q = `
SELECT id, name, type, area_ha, duration_months, location, intensity
FROM projects
ORDER BY seq;
`
	logger := logging.NewLogger(ctx)
	out := []domain.Project{}

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		logger.LogErrorf("read_projects", "failed to read projects: %v", err)
		return out
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			logger.LogWarnf("read_projects", "skipping invalid row: %v", err)
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		logger.LogErrorf("read_projects", "failed to read projects: %v", err)
		return []domain.Project{}
	}
	return out
}

// ReadByID returns the project with the given id.
func (r *ProjectRepository) ReadByID(ctx context.Context, id string) (*domain.Project, bool) {
	const q = `
SELECT id, name, type, area_ha, duration_months, location, intensity
FROM projects
WHERE id = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		logging.NewLogger(ctx).LogErrorf("read_project", "failed to read project %s: %v", id, err)
		return nil, false
	}
	return &p, true
}

// Update applies the known, non-id columns in changes to the project.
func (r *ProjectRepository) Update(ctx context.Context, id string, changes map[string]string) (bool, error) {
	sets := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)+1)
	for _, col := range domain.Columns {
		v, ok := changes[col]
		if !ok || col == domain.ColumnID {
			continue
		}
		arg, err := columnValue(col, v)
		if err != nil {
			return false, err
		}
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), len(args)))
	}
	args = append(args, id)

	var q string
	if len(sets) == 0 {
		q = fmt.Sprintf(`SELECT 1 FROM projects WHERE id = $%d;`, len(args))
		var one int
		err := r.db.QueryRowContext(ctx, q, args...).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, &domain.StorageError{Op: "update", Err: err}
		}
		return true, nil
	}

	q = fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d;`, strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, &domain.StorageError{Op: "update", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &domain.StorageError{Op: "update", Err: err}
	}
	if n == 0 {
		logging.NewLogger(ctx).LogWarnf("update_project", "project not found for update: %s", id)
	}
	return n > 0, nil
}

// Delete removes the project with the given id.
func (r *ProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return false, &domain.StorageError{Op: "delete", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &domain.StorageError{Op: "delete", Err: err}
	}
	if n == 0 {
		logging.NewLogger(ctx).LogWarnf("delete_project", "project not found for delete: %s", id)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (domain.Project, error) {
	var (
		p        domain.Project
		typ      string
		location sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &typ, &p.AreaHa, &p.DurationMonths, &location, &p.Intensity); err != nil {
		return domain.Project{}, err
	}
	p.Type = domain.ProjectType(typ)
	p.Location = location.String
	return p, nil
}

func columnValue(col, v string) (any, error) {
	switch col {
	case domain.ColumnAreaHa:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &domain.ValidationError{Field: col, Message: "area_ha must be a valid number"}
		}
		return f, nil
	case domain.ColumnDurationMonths:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &domain.ValidationError{Field: col, Message: "duration_months must be a valid integer"}
		}
		return n, nil
	case domain.ColumnIntensity:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &domain.ValidationError{Field: col, Message: "intensity must be a valid integer"}
		}
		return n, nil
	default:
		return v, nil
	}
}
