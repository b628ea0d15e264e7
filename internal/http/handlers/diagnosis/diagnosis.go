package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gasgenie/gasgenie-service/internal/http/middleware"
	"github.com/gasgenie/gasgenie-service/internal/services/vision"
	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type Analyzer interface {
	Analyze(ctx context.Context, userID, photoURL string) (types.Diagnosis, error)
}

// Diagnose asks the vision model what is wrong in a job photo
// @Summary Diagnose a job photo
// @Description Fetch the photo, ask the vision model for a structured diagnosis and store it against the caller
// @Tags diagnosis
// @Accept json
// @Produce json
// @Param request body types.DiagnosisRequest true "Photo to analyse"
// @Success 200 {object} types.Diagnosis "Diagnosis"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 502 {object} response.Response "AI analysis failed"
// @Security BearerAuth
// @Router /diagnosis [post]
func Diagnose(analyzer Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		var req types.DiagnosisRequest
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

		diagnosis, err := analyzer.Analyze(r.Context(), userID, req.PhotoURL)
		if err != nil {
			slog.Error("Photo diagnosis failed", slog.String("user_id", userID), slog.String("error", err.Error()))
			if errors.Is(err, vision.ErrFetchImage) {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(vision.ErrFetchImage))
				return
			}
			response.WriteJSON(w, http.StatusBadGateway, response.GeneralError(vision.ErrAnalysis))
			return
		}

		response.WriteJSON(w, http.StatusOK, diagnosis)
	}
}
