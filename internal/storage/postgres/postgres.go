package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/config"
	"github.com/gasgenie/gasgenie-service/internal/storage"
	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/types/media"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

//go:embed migrations/*.sql
var migrations embed.FS

type Postgres struct {
	Db *sql.DB
}

var _ storage.Storage = (*Postgres)(nil)

func NewPostgres(ctx context.Context, cfg *config.Config) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGSQL.Host, cfg.PGSQL.Port, cfg.PGSQL.User, cfg.PGSQL.Password, cfg.PGSQL.DBName, cfg.PGSQL.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Postgres{Db: db}, nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

func migrate(db *sql.DB) error {
	const op = "postgres.migrate"

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			slog.Info("No migrations to apply")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("Database migrations applied")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

const photoColumns = `id, file_path, file_url, content_type, uploaded_by, description, uploaded_at, job_id`

// scanPhoto reads one job_photos row. NULL description and job_id become empty strings.
func scanPhoto(row rowScanner) (media.PhotoRecord, error) {
	var (
		rec         media.PhotoRecord
		id          int64
		description sql.NullString
		jobID       sql.NullString
	)

	err := row.Scan(&id, &rec.StorageKey, &rec.URL, &rec.ContentType, &rec.UploadedBy, &description, &rec.UploadedAt, &jobID)
	if err != nil {
		return media.PhotoRecord{}, err
	}

	rec.ID = strconv.FormatInt(id, 10)
	rec.Description = description.String
	rec.JobID = jobID.String
	rec.UploadedAt = rec.UploadedAt.UTC()
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, storage.ErrNotFound
	}
	return n, nil
}

func (p *Postgres) InsertPhoto(ctx context.Context, rec media.PhotoRecord) (media.PhotoRecord, error) {
	query := `
	INSERT INTO job_photos (file_path, file_url, content_type, uploaded_by, description, uploaded_at, job_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + photoColumns

	row := p.Db.QueryRowContext(ctx, query,
		rec.StorageKey, rec.URL, rec.ContentType, rec.UploadedBy,
		nullString(rec.Description), rec.UploadedAt, nullString(rec.JobID))

	saved, err := scanPhoto(row)
	if err != nil {
		return media.PhotoRecord{}, fmt.Errorf("insert photo: %w", err)
	}
	return saved, nil
}

func (p *Postgres) GetPhoto(ctx context.Context, id string) (media.PhotoRecord, error) {
	photoID, err := parseID(id)
	if err != nil {
		return media.PhotoRecord{}, err
	}

	query := `SELECT ` + photoColumns + ` FROM job_photos WHERE id = $1`
	rec, err := scanPhoto(p.Db.QueryRowContext(ctx, query, photoID))
	if errors.Is(err, sql.ErrNoRows) {
		return media.PhotoRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return media.PhotoRecord{}, fmt.Errorf("get photo: %w", err)
	}
	return rec, nil
}

func (p *Postgres) ListPhotosByOwner(ctx context.Context, ownerID string) ([]media.PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM job_photos WHERE uploaded_by = $1 ORDER BY uploaded_at DESC`
	return p.queryPhotos(ctx, query, ownerID)
}

// ListPhotosOldestFirst has no secondary sort key: rows sharing a timestamp come back in
// whatever order Postgres returns them.
func (p *Postgres) ListPhotosOldestFirst(ctx context.Context) ([]media.PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM job_photos ORDER BY uploaded_at ASC`
	return p.queryPhotos(ctx, query)
}

func (p *Postgres) queryPhotos(ctx context.Context, query string, args ...any) ([]media.PhotoRecord, error) {
	rows, err := p.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query photos: %w", err)
	}
	defer rows.Close()

	photos := []media.PhotoRecord{}
	for rows.Next() {
		rec, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return photos, nil
}

func (p *Postgres) UpdatePhotoDescription(ctx context.Context, id, ownerID, description string) (media.PhotoRecord, error) {
	photoID, err := parseID(id)
	if err != nil {
		return media.PhotoRecord{}, err
	}

	query := `
	UPDATE job_photos SET description = $1
	WHERE id = $2 AND uploaded_by = $3
	RETURNING ` + photoColumns

	rec, err := scanPhoto(p.Db.QueryRowContext(ctx, query, nullString(description), photoID, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return media.PhotoRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return media.PhotoRecord{}, fmt.Errorf("update photo description: %w", err)
	}
	return rec, nil
}

// DeletePhoto is idempotent: deleting a missing row is not an error.
func (p *Postgres) DeletePhoto(ctx context.Context, id string) error {
	photoID, err := parseID(id)
	if err != nil {
		return err
	}

	if _, err := p.Db.ExecContext(ctx, `DELETE FROM job_photos WHERE id = $1`, photoID); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func (p *Postgres) CreateUser(ctx context.Context, email, password string) (string, error) {
	var userID int
	query := `
	INSERT INTO users (email, password)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, email, password).Scan(&userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", storage.ErrConflict
		}
		return "", err
	}

	return strconv.Itoa(userID), nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var userID int
	var hashedPassword string
	query := `SELECT id, password FROM users WHERE email = $1`

	err := p.Db.QueryRowContext(ctx, query, email).Scan(&userID, &hashedPassword)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", storage.ErrNotFound
	}
	if err != nil {
		return "", "", err
	}

	return strconv.Itoa(userID), hashedPassword, nil
}

func (p *Postgres) SavePhotoAnalysis(ctx context.Context, analysis types.PhotoAnalysis) (string, error) {
	var id int64
	query := `
	INSERT INTO photo_analyses (user_id, photo_url, analysis, model_used)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, analysis.UserID, analysis.PhotoURL, string(analysis.Analysis), analysis.ModelUsed).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save photo analysis: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (p *Postgres) CreateJob(ctx context.Context, job types.Job) (string, error) {
	status := job.Status
	if status == "" {
		status = "open"
	}

	var id int
	query := `
	INSERT INTO jobs (user_id, description, customer_name, address, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, job.UserID, job.Description,
		nullString(job.CustomerName), nullString(job.Address), status).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	return strconv.Itoa(id), nil
}

func (p *Postgres) ListJobsByUser(ctx context.Context, userID string) ([]types.Job, error) {
	query := `
	SELECT id, user_id, description, COALESCE(customer_name, ''), COALESCE(address, ''), status, created_at
	FROM jobs
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT 100
	`

	rows, err := p.Db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []types.Job{}
	for rows.Next() {
		var (
			job       types.Job
			id        int
			createdAt time.Time
		)
		if err := rows.Scan(&id, &job.UserID, &job.Description, &job.CustomerName, &job.Address, &job.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		job.ID = strconv.Itoa(id)
		job.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func (p *Postgres) LogWorkHours(ctx context.Context, entry types.WorkHours) (string, error) {
	var id int64
	query := `
	INSERT INTO work_hours (user_id, hours, job_id, notes)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, entry.UserID, entry.Hours, nullString(entry.JobID), nullString(entry.Notes)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("log work hours: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (p *Postgres) LogMileage(ctx context.Context, entry types.MileageLog) (string, error) {
	var id int64
	query := `
	INSERT INTO mileage_logs (user_id, miles, job_id, notes)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, entry.UserID, entry.Miles, nullString(entry.JobID), nullString(entry.Notes)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("log mileage: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}
