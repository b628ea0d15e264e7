package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gasgenie/gasgenie-service/internal/http/middleware"
	"github.com/gasgenie/gasgenie-service/internal/quota"
	mediaService "github.com/gasgenie/gasgenie-service/internal/services/media"
	"github.com/gasgenie/gasgenie-service/internal/storage"
	"github.com/gasgenie/gasgenie-service/internal/types/media"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// multipartOverhead is allowed on top of the file size for form fields and boundaries.
const multipartOverhead = 1 << 20

type Gate interface {
	Upload(ctx context.Context, p quota.UploadParams) (media.PhotoRecord, error)
	Delete(ctx context.Context, ownerID, photoID string) error
}

type UsageEstimator interface {
	EstimateUsage(ctx context.Context) media.StorageUsageSnapshot
}

type Catalog interface {
	ListPhotosByOwner(ctx context.Context, ownerID string) ([]media.PhotoRecord, error)
	UpdatePhotoDescription(ctx context.Context, id, ownerID, description string) (media.PhotoRecord, error)
}

type UploadPolicy interface {
	ValidateContentType(contentType string) bool
	MaxFileSize() int64
}

type PhotoHandlers struct {
	gate      Gate
	estimator UsageEstimator
	catalog   Catalog
	policy    UploadPolicy
}

func NewPhotoHandlers(gate Gate, estimator UsageEstimator, catalog Catalog, policy UploadPolicy) *PhotoHandlers {
	return &PhotoHandlers{
		gate:      gate,
		estimator: estimator,
		catalog:   catalog,
		policy:    policy,
	}
}

// Upload stores a job photo, evicting the oldest photos first if storage is near full
// @Summary Upload a job photo
// @Description Upload a photo as multipart form data. If estimated storage usage is at or above 90% the oldest photos are evicted first.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Photo file"
// @Param description formData string false "Description"
// @Param job_id formData string false "Job ID"
// @Success 201 {object} media.PhotoRecord "Photo uploaded"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 413 {object} response.Response "File too large"
// @Failure 415 {object} response.Response "Unsupported media type"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 502 {object} response.Response "Photo upload failed"
// @Security BearerAuth
// @Router /photos [post]
func (h *PhotoHandlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		maxSize := h.policy.MaxFileSize()
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
		if err := r.ParseMultipartForm(multipartOverhead); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.GeneralError(errors.New("file too large")))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid multipart form")))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("photo")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("photo file is required")))
			return
		}
		defer file.Close()

		if header.Size > maxSize {
			response.WriteJSON(w, http.StatusRequestEntityTooLarge, response.GeneralError(errors.New("file too large")))
			return
		}

		body, contentType, err := h.detectContentType(file, header.Header.Get("Content-Type"))
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("could not read photo")))
			return
		}
		if !h.policy.ValidateContentType(contentType) {
			response.WriteJSON(w, http.StatusUnsupportedMediaType, response.GeneralError(errors.New("unsupported content type: "+contentType)))
			return
		}

		metadata := media.PhotoMetadata{
			Description: r.FormValue("description"),
			JobID:       strings.TrimSpace(r.FormValue("job_id")),
		}
		if err := validator.New().Struct(metadata); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		rec, err := h.gate.Upload(r.Context(), quota.UploadParams{
			OwnerID:     userID,
			Reader:      body,
			Size:        header.Size,
			ContentType: contentType,
			Extension:   mediaService.ExtensionFor(contentType),
			Metadata:    metadata,
		})
		if err != nil {
			slog.Error("Photo upload failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			switch {
			case errors.Is(err, quota.ErrObjectWrite):
				response.WriteJSON(w, http.StatusBadGateway, response.GeneralError(quota.ErrObjectWrite))
			case errors.Is(err, quota.ErrCatalogWrite):
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(quota.ErrCatalogWrite))
			default:
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("photo upload failed")))
			}
			return
		}

		response.WriteJSON(w, http.StatusCreated, rec)
	}
}

// detectContentType trusts the declared part type when it is allowed and sniffs the first
// 512 bytes otherwise. The returned reader still yields the whole file.
func (h *PhotoHandlers) detectContentType(file io.Reader, declared string) (io.Reader, string, error) {
	if declared != "" && h.policy.ValidateContentType(declared) {
		return file, declared, nil
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]

	return io.MultiReader(bytes.NewReader(head), file), http.DetectContentType(head), nil
}

// List returns the caller's photos
// @Summary List my photos
// @Description List photos uploaded by the authenticated user, newest first
// @Tags photos
// @Produce json
// @Success 200 {array} media.PhotoRecord "Photos"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /photos [get]
func (h *PhotoHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		photos, err := h.catalog.ListPhotosByOwner(r.Context(), userID)
		if err != nil {
			slog.Error("Failed to list photos", slog.String("user_id", userID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list photos")))
			return
		}

		response.WriteJSON(w, http.StatusOK, photos)
	}
}

// UpdateDescription edits a photo's description
// @Summary Update photo description
// @Tags photos
// @Accept json
// @Produce json
// @Param id path string true "Photo ID"
// @Param request body media.UpdateDescriptionRequest true "New description"
// @Success 200 {object} media.PhotoRecord "Updated photo"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Photo not found"
// @Security BearerAuth
// @Router /photos/{id} [patch]
func (h *PhotoHandlers) UpdateDescription() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req media.UpdateDescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		rec, err := h.catalog.UpdatePhotoDescription(r.Context(), r.PathValue("id"), userID, strings.TrimSpace(req.Description))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(quota.ErrNotFound))
				return
			}
			slog.Error("Failed to update photo", slog.String("photo_id", r.PathValue("id")), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to update photo")))
			return
		}

		response.WriteJSON(w, http.StatusOK, rec)
	}
}

// Delete removes one of the caller's photos
// @Summary Delete a photo
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} response.Response "Photo deleted"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Photo not found"
// @Security BearerAuth
// @Router /photos/{id} [delete]
func (h *PhotoHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		photoID := r.PathValue("id")
		if err := h.gate.Delete(r.Context(), userID, photoID); err != nil {
			if errors.Is(err, quota.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(quota.ErrNotFound))
				return
			}
			slog.Error("Failed to delete photo", slog.String("photo_id", photoID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to delete photo")))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Photo deleted", nil))
	}
}

// Usage reports estimated storage usage
// @Summary Storage usage
// @Description Estimated photo storage usage: object count times 300 KB against the 1024 MB limit
// @Tags photos
// @Produce json
// @Success 200 {object} media.StorageUsageSnapshot "Usage snapshot"
// @Security BearerAuth
// @Router /photos/usage [get]
func (h *PhotoHandlers) Usage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, h.estimator.EstimateUsage(r.Context()))
	}
}
