package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/types/documents"
	"github.com/gasgenie/gasgenie-service/internal/types/media"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type Storage interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (string, string, error)

	InsertPhoto(ctx context.Context, rec media.PhotoRecord) (media.PhotoRecord, error)
	GetPhoto(ctx context.Context, id string) (media.PhotoRecord, error)
	ListPhotosByOwner(ctx context.Context, ownerID string) ([]media.PhotoRecord, error)
	ListPhotosOldestFirst(ctx context.Context) ([]media.PhotoRecord, error)
	UpdatePhotoDescription(ctx context.Context, id, ownerID, description string) (media.PhotoRecord, error)
	DeletePhoto(ctx context.Context, id string) error

	SavePhotoAnalysis(ctx context.Context, analysis types.PhotoAnalysis) (string, error)

	CreateJob(ctx context.Context, job types.Job) (string, error)
	ListJobsByUser(ctx context.Context, userID string) ([]types.Job, error)
	LogWorkHours(ctx context.Context, entry types.WorkHours) (string, error)
	LogMileage(ctx context.Context, entry types.MileageLog) (string, error)
	ListWorkHours(ctx context.Context, userID string, from, to time.Time) ([]types.WorkHours, error)
	ListMileage(ctx context.Context, userID string, from, to time.Time) ([]types.MileageLog, error)

	CreateQuote(ctx context.Context, q documents.Quote) (documents.Quote, error)
	GetQuote(ctx context.Context, id string) (documents.Quote, error)
	ListRecentQuotes(ctx context.Context, userID string, limit int) ([]documents.Quote, error)
	CreateInvoice(ctx context.Context, inv documents.Invoice) (documents.Invoice, error)
	GetInvoice(ctx context.Context, id string) (documents.Invoice, error)
	ListRecentInvoices(ctx context.Context, userID string, limit int) ([]documents.Invoice, error)
	CreateCP12(ctx context.Context, rec documents.CP12Record) (documents.CP12Record, error)
	GetCP12(ctx context.Context, id string) (documents.CP12Record, error)
	ListRecentCP12(ctx context.Context, userID string, limit int) ([]documents.CP12Record, error)

	GetProfile(ctx context.Context, userID string) (documents.Profile, error)
	UpsertProfile(ctx context.Context, p documents.Profile) error
	CreateShare(ctx context.Context, s documents.Share) error
	GetShare(ctx context.Context, token string) (documents.Share, error)
}
