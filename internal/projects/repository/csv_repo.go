package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// CSVRepository stores projects in a flat CSV file with a header row.
//
// The file is the only source of truth: every call re-reads it and every
// mutation rewrites the whole table through a temp file that is renamed over
// the original. The mutex serializes read-modify-write cycles of this value
// only; separate processes writing the same file are not coordinated.
type CSVRepository struct {
	path             string
	defaultIntensity int
	mu               sync.Mutex
}

var _ Repository = (*CSVRepository)(nil)

// CSVOption configures a CSVRepository.
type CSVOption func(*CSVRepository)

// WithDefaultIntensity sets the intensity assumed for rows written before the
// intensity column existed.
func WithDefaultIntensity(n int) CSVOption {
	return func(r *CSVRepository) { r.defaultIntensity = n }
}

// NewCSVRepository creates a repository backed by the file at path.
func NewCSVRepository(path string, opts ...CSVOption) *CSVRepository {
	r := &CSVRepository{path: path, defaultIntensity: 5}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the backing file.
func (r *CSVRepository) Path() string {
	return r.path
}

// Init creates the backing file with its header row if it is missing or empty.
func (r *CSVRepository) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.init(ctx)
}

func (r *CSVRepository) init(ctx context.Context) error {
	info, err := os.Stat(r.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.StorageError{Op: "init", Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return &domain.StorageError{Op: "init", Err: err}
	}
	if err := r.writeTable(nil); err != nil {
		return &domain.StorageError{Op: "init", Err: err}
	}
	logging.NewLogger(ctx).LogInfof("init_store", "data file created: %s", r.path)
	return nil
}

// Create appends p unless a project with the same id is already stored.
func (r *CSVRepository) Create(ctx context.Context, p domain.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := logging.NewLogger(ctx)
	if err := r.init(ctx); err != nil {
		return err
	}

	// ids of undecodable rows count too, so one id never owns two rows
	t, err := r.readTable(ctx)
	if err != nil {
		logger.LogErrorf("create_project", "failed to read projects: %v", err)
		return &domain.StorageError{Op: "create", Err: err}
	}
	if lo.ContainsBy(t.records, func(rec []string) bool { return t.row(rec)[domain.ColumnID] == p.ID }) {
		logger.LogWarnf("create_project", "attempt to create project with existing id: %s", p.ID)
		return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, p.ID)
	}

	if !slices.Equal(t.header, domain.Columns) {
		// an older layout is migrated to the full header before it grows
		records := lo.Map(t.records, func(rec []string, _ int) []string { return r.canonical(t, t.row(rec)) })
		if err := r.writeTable(append(records, encode(p))); err != nil {
			logger.LogErrorf("create_project", "failed to rewrite projects for %s: %v", p.ID, err)
			return &domain.StorageError{Op: "create", Err: err}
		}
		logger.LogDebugf("create_project", "project stored: %s", p.ID)
		return nil
	}

	if err := r.appendRecord(encode(p)); err != nil {
		logger.LogErrorf("create_project", "failed to write project %s: %v", p.ID, err)
		return &domain.StorageError{Op: "create", Err: err}
	}
	logger.LogDebugf("create_project", "project stored: %s", p.ID)
	return nil
}

// ReadAll returns every decodable project in file order.
func (r *CSVRepository) ReadAll(ctx context.Context) []domain.Project {
	if ctx.Err() != nil {
		return []domain.Project{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll(ctx)
}

func (r *CSVRepository) readAll(ctx context.Context) []domain.Project {
	logger := logging.NewLogger(ctx)
	items := []domain.Project{}

	if err := r.init(ctx); err != nil {
		logger.LogError("read_projects", err)
		return items
	}
	t, err := r.readTable(ctx)
	if err != nil {
		logger.LogErrorf("read_projects", "failed to read projects: %v", err)
		return items
	}

	for i, rec := range t.records {
		p, err := r.decode(t.row(rec))
		if err != nil {
			logger.LogWarnf("read_projects", "skipping invalid row %d: %v", i+1, err)
			continue
		}
		items = append(items, p)
	}
	logger.LogDebugf("read_projects", "read %d projects from storage", len(items))
	return items
}

// ReadByID scans the table for id.
func (r *CSVRepository) ReadByID(ctx context.Context, id string) (*domain.Project, bool) {
	p, ok := lo.Find(r.ReadAll(ctx), func(p domain.Project) bool { return p.ID == id })
	if !ok {
		return nil, false
	}
	return &p, true
}

// Update rewrites the table with the known, non-id columns of changes applied
// to the row whose id matches. Unknown keys are ignored.
func (r *CSVRepository) Update(ctx context.Context, id string, changes map[string]string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := logging.NewLogger(ctx)
	if err := r.init(ctx); err != nil {
		return false, err
	}
	t, err := r.readTable(ctx)
	if err != nil {
		logger.LogErrorf("update_project", "failed to read projects for %s: %v", id, err)
		return false, &domain.StorageError{Op: "update", Err: err}
	}

	found := false
	records := make([][]string, 0, len(t.records))
	for _, rec := range t.records {
		row := t.row(rec)
		if row[domain.ColumnID] == id {
			found = true
			for k, v := range changes {
				if k != domain.ColumnID && lo.Contains(domain.Columns, k) {
					row[k] = v
				}
			}
		}
		records = append(records, r.canonical(t, row))
	}

	if !found {
		logger.LogWarnf("update_project", "project not found for update: %s", id)
		return false, nil
	}
	if err := r.writeTable(records); err != nil {
		logger.LogErrorf("update_project", "failed to rewrite projects for %s: %v", id, err)
		return false, &domain.StorageError{Op: "update", Err: err}
	}
	logger.LogDebugf("update_project", "project %s updated: %v", id, changes)
	return true, nil
}

// Delete rewrites the table without the row whose id matches.
func (r *CSVRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := logging.NewLogger(ctx)
	if err := r.init(ctx); err != nil {
		return false, err
	}
	t, err := r.readTable(ctx)
	if err != nil {
		logger.LogErrorf("delete_project", "failed to read projects for %s: %v", id, err)
		return false, &domain.StorageError{Op: "delete", Err: err}
	}

	removed := false
	records := make([][]string, 0, len(t.records))
	for _, rec := range t.records {
		row := t.row(rec)
		if row[domain.ColumnID] == id {
			removed = true
			continue
		}
		records = append(records, r.canonical(t, row))
	}

	if !removed {
		logger.LogWarnf("delete_project", "project not found for delete: %s", id)
		return false, nil
	}
	if err := r.writeTable(records); err != nil {
		logger.LogErrorf("delete_project", "failed to rewrite projects for %s: %v", id, err)
		return false, &domain.StorageError{Op: "delete", Err: err}
	}
	logger.LogDebugf("delete_project", "project deleted: %s", id)
	return true, nil
}

// table is the raw content of the file: its header and undecoded records.
type table struct {
	header  []string
	records [][]string
}

func (t *table) row(rec []string) map[string]string {
	row := make(map[string]string, len(t.header))
	for i, col := range t.header {
		if i < len(rec) {
			row[col] = rec[i]
		}
	}
	return row
}

func (r *CSVRepository) readTable(ctx context.Context) (*table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &table{header: domain.Columns}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	t := &table{header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			logging.NewLogger(ctx).LogWarnf("read_projects", "skipping unreadable line %d: %v", pe.Line, pe.Err)
			continue
		}
		if err != nil {
			return nil, err
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

// writeTable replaces the file with the header and records. The content goes
// to a temp file first so a failed write leaves the previous table in place.
func (r *CSVRepository) writeTable(records [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(domain.Columns); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *CSVRepository) appendRecord(rec []string) error {
	f, err := os.OpenFile(r.path, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	// A hand-edited file may lack the final newline; never glue two rows together.
	if info, err := f.Stat(); err == nil && info.Size() > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, info.Size()-1); err == nil && last[0] != '\n' {
			if _, err := f.Write([]byte("\n")); err != nil {
				f.Close()
				return err
			}
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(rec); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *CSVRepository) decode(row map[string]string) (domain.Project, error) {
	var p domain.Project
	for _, col := range []string{domain.ColumnID, domain.ColumnName, domain.ColumnType, domain.ColumnAreaHa, domain.ColumnDurationMonths} {
		if _, ok := row[col]; !ok {
			return p, fmt.Errorf("missing column %q", col)
		}
	}

	area, err := strconv.ParseFloat(strings.TrimSpace(row[domain.ColumnAreaHa]), 64)
	if err != nil {
		return p, fmt.Errorf("area_ha: %w", err)
	}
	duration, err := strconv.Atoi(strings.TrimSpace(row[domain.ColumnDurationMonths]))
	if err != nil {
		return p, fmt.Errorf("duration_months: %w", err)
	}
	intensity := r.defaultIntensity
	if v, ok := row[domain.ColumnIntensity]; ok {
		if intensity, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
			return p, fmt.Errorf("intensity: %w", err)
		}
	}

	return domain.Project{
		ID:             row[domain.ColumnID],
		Name:           row[domain.ColumnName],
		Type:           domain.ProjectType(row[domain.ColumnType]),
		AreaHa:         area,
		DurationMonths: duration,
		Location:       row[domain.ColumnLocation],
		Intensity:      intensity,
	}, nil
}

func encode(p domain.Project) []string {
	return []string{
		p.ID,
		p.Name,
		string(p.Type),
		strconv.FormatFloat(p.AreaHa, 'f', -1, 64),
		strconv.Itoa(p.DurationMonths),
		p.Location,
		strconv.Itoa(p.Intensity),
	}
}

// canonical lays row out in column order. Columns the file header lacks get
// the values decode would assume for them.
func (r *CSVRepository) canonical(t *table, row map[string]string) []string {
	return lo.Map(domain.Columns, func(col string, _ int) string {
		if v, ok := row[col]; ok {
			return v
		}
		if col == domain.ColumnIntensity && !lo.Contains(t.header, col) {
			return strconv.Itoa(r.defaultIntensity)
		}
		return row[col]
	})
}
