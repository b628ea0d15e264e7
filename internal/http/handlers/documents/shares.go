package documents

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gasgenie/gasgenie-service/internal/storage"
	"github.com/gasgenie/gasgenie-service/internal/types/documents"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/google/uuid"
)

const defaultShareDays = 30

var (
	errShareInvalid    = errors.New("this link is invalid or has expired")
	errShareExpired    = errors.New("this link has expired, please contact your engineer for a new one")
	errUnknownDocument = errors.New("unknown document type")
	errDocumentMissing = errors.New("document not found")
)

// document loads one document of the given type together with its owner.
func (h *DocumentHandlers) document(ctx context.Context, t documents.DocumentType, id string) (any, string, error) {
	switch t {
	case documents.TypeCP12:
		rec, err := h.store.GetCP12(ctx, id)
		return rec, rec.UserID, err
	case documents.TypeQuote:
		q, err := h.store.GetQuote(ctx, id)
		return q, q.UserID, err
	case documents.TypeInvoice:
		inv, err := h.store.GetInvoice(ctx, id)
		return inv, inv.UserID, err
	}
	return nil, "", errUnknownDocument
}

// CreateShare issues an expiring link to one of the caller's documents
// @Summary Share a document with a customer
// @Description Returns a token; GET /shared/{token} serves the document without authentication until it expires
// @Tags documents
// @Accept json
// @Produce json
// @Param request body documents.ShareRequest true "Document to share"
// @Success 201 {object} documents.ShareResponse "Share link"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Document not found"
// @Security BearerAuth
// @Router /shares [post]
func (h *DocumentHandlers) CreateShare() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req documents.ShareRequest
		if !decode(w, r, &req) {
			return
		}

		docType, _ := documents.ParseDocumentType(req.DocumentType)
		_, ownerID, err := h.document(r.Context(), docType, req.DocumentID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			storageFailure(w, "load document", userID, err)
			return
		}
		// Someone else's document is reported exactly like a missing one.
		if err != nil || ownerID != userID {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errDocumentMissing))
			return
		}

		days := req.ExpiresInDays
		if days == 0 {
			days = defaultShareDays
		}
		share := documents.Share{
			Token:        uuid.NewString(),
			UserID:       userID,
			DocumentType: docType,
			DocumentID:   req.DocumentID,
			ExpiresAt:    h.now().UTC().AddDate(0, 0, days),
		}
		if err := h.store.CreateShare(r.Context(), share); err != nil {
			storageFailure(w, "create share", userID, err)
			return
		}

		slog.Info("Document shared",
			slog.String("user_id", userID),
			slog.String("document_type", string(docType)),
			slog.String("document_id", req.DocumentID))
		response.WriteJSON(w, http.StatusCreated, documents.ShareResponse{
			Token:     share.Token,
			Path:      "/shared/" + share.Token,
			ExpiresAt: share.ExpiresAt,
		})
	}
}

// Shared serves a shared document and the issuing engineer's profile to a customer
// @Summary View a shared document
// @Description Public endpoint behind a share link. No authentication.
// @Tags documents
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} documents.SharedDocument "Document"
// @Failure 404 {object} response.Response "Invalid link or document not found"
// @Failure 410 {object} response.Response "Link expired"
// @Failure 422 {object} response.Response "Unknown document type"
// @Router /shared/{token} [get]
func (h *DocumentHandlers) Shared() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")
		if token == "" {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errShareInvalid))
			return
		}

		share, err := h.store.GetShare(r.Context(), token)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errShareInvalid))
				return
			}
			storageFailure(w, "load share", "", err)
			return
		}

		if share.Expired(h.now()) {
			response.WriteJSON(w, http.StatusGone, response.GeneralError(errShareExpired))
			return
		}

		docType, ok := documents.ParseDocumentType(string(share.DocumentType))
		if !ok {
			slog.Warn("Share points at an unknown document type",
				slog.String("document_type", string(share.DocumentType)))
			response.WriteJSON(w, http.StatusUnprocessableEntity, response.GeneralError(errUnknownDocument))
			return
		}

		doc, _, err := h.document(r.Context(), docType, share.DocumentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errDocumentMissing))
				return
			}
			storageFailure(w, "load document", share.UserID, err)
			return
		}

		out := documents.SharedDocument{DocumentType: docType, Document: doc}
		profile, err := h.store.GetProfile(r.Context(), share.UserID)
		switch {
		case err == nil:
			out.Engineer = &profile
		case !errors.Is(err, storage.ErrNotFound):
			slog.Warn("Failed to load engineer profile for shared document",
				slog.String("user_id", share.UserID),
				slog.String("error", err.Error()))
		}

		response.WriteJSON(w, http.StatusOK, out)
	}
}

// GetProfile returns the caller's profile, empty if none has been saved yet
// @Summary Get my profile
// @Tags documents
// @Produce json
// @Success 200 {object} documents.Profile "Profile"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /profile [get]
func (h *DocumentHandlers) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		profile, err := h.store.GetProfile(r.Context(), userID)
		if errors.Is(err, storage.ErrNotFound) {
			profile, err = documents.Profile{UserID: userID}, nil
		}
		if err != nil {
			storageFailure(w, "load profile", userID, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, profile)
	}
}

// UpdateProfile saves the name, company and Gas Safe number customers see on shared documents
// @Summary Update my profile
// @Tags documents
// @Accept json
// @Produce json
// @Param request body documents.ProfileRequest true "Profile"
// @Success 200 {object} documents.Profile "Profile"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /profile [put]
func (h *DocumentHandlers) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		var req documents.ProfileRequest
		if !decode(w, r, &req) {
			return
		}

		profile := documents.Profile{
			UserID:        userID,
			DisplayName:   req.DisplayName,
			CompanyName:   req.CompanyName,
			GasSafeNumber: req.GasSafeNumber,
			Phone:         req.Phone,
		}
		if err := h.store.UpsertProfile(r.Context(), profile); err != nil {
			storageFailure(w, "save profile", userID, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, profile)
	}
}
