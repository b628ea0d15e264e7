package jobs

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/http/middleware"
	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
)

const dateLayout = "2006-01-02"

type Logbook interface {
	ListWorkHours(ctx context.Context, userID string, from, to time.Time) ([]types.WorkHours, error)
	ListMileage(ctx context.Context, userID string, from, to time.Time) ([]types.MileageLog, error)
}

// dayRange reads ?date=YYYY-MM-DD, defaulting to today in UTC, and returns that day's
// bounds.
func dayRange(r *http.Request, now time.Time) (string, time.Time, time.Time, error) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = now.UTC().Format(dateLayout)
	}
	from, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", time.Time{}, time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return date, from, from.AddDate(0, 0, 1), nil
}

// roundTenth matches the one-decimal totals shown on the dashboard.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// Hours returns one day of logged work with its total
// @Summary Work hours for a day
// @Description Entries logged through the voice assistant for one UTC day, oldest first
// @Tags jobs
// @Produce json
// @Param date query string false "Day as YYYY-MM-DD, defaults to today"
// @Success 200 {object} types.HoursSummary "Hours"
// @Failure 400 {object} response.Response "Bad date"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /hours [get]
func Hours(logbook Logbook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		date, from, to, err := dayRange(r, time.Now())
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		entries, err := logbook.ListWorkHours(r.Context(), userID, from, to)
		if err != nil {
			slog.Error("Failed to list work hours", slog.String("user_id", userID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list work hours")))
			return
		}

		var total float64
		for _, e := range entries {
			total += e.Hours
		}
		response.WriteJSON(w, http.StatusOK, types.HoursSummary{Date: date, Entries: entries, TotalHours: roundTenth(total)})
	}
}

// Mileage returns one day of logged trips with the distance driven
// @Summary Mileage for a day
// @Description Trips logged through the voice assistant for one UTC day, oldest first
// @Tags jobs
// @Produce json
// @Param date query string false "Day as YYYY-MM-DD, defaults to today"
// @Success 200 {object} types.MileageSummary "Mileage"
// @Failure 400 {object} response.Response "Bad date"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /mileage [get]
func Mileage(logbook Logbook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		date, from, to, err := dayRange(r, time.Now())
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		entries, err := logbook.ListMileage(r.Context(), userID, from, to)
		if err != nil {
			slog.Error("Failed to list mileage", slog.String("user_id", userID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list mileage")))
			return
		}

		var total float64
		for _, e := range entries {
			total += e.Miles
		}
		response.WriteJSON(w, http.StatusOK, types.MileageSummary{Date: date, Entries: entries, TotalMiles: roundTenth(total)})
	}
}
