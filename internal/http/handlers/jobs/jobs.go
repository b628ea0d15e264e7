package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gasgenie/gasgenie-service/internal/http/middleware"
	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
)

type Lister interface {
	ListJobsByUser(ctx context.Context, userID string) ([]types.Job, error)
}

// List returns the jobs the assistant logged for the caller
// @Summary List my jobs
// @Description Jobs logged through the voice assistant, newest first
// @Tags jobs
// @Produce json
// @Success 200 {array} types.Job "Jobs"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /jobs [get]
func List(lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		jobs, err := lister.ListJobsByUser(r.Context(), userID)
		if err != nil {
			slog.Error("Failed to list jobs", slog.String("user_id", userID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list jobs")))
			return
		}

		response.WriteJSON(w, http.StatusOK, jobs)
	}
}
