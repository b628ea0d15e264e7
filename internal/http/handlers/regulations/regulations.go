package regulations

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	regulationService "github.com/gasgenie/gasgenie-service/internal/services/regulations"
	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]types.RegulationMatch, error)
}

// Search looks up regulation passages relevant to a free-text question
// @Summary Search regulations
// @Description Semantic search over indexed gas regulations. Results are cached for 10 minutes.
// @Tags regulations
// @Accept json
// @Produce json
// @Param request body types.RegulationSearchRequest true "Question"
// @Success 200 {object} types.RegulationSearchResponse "Matches"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 502 {object} response.Response "Search failed"
// @Security BearerAuth
// @Router /regulations/search [post]
func Search(searcher Searcher, topK int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RegulationSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")))
			return
		}
		req.Query = strings.TrimSpace(req.Query)
		if err := validator.New().Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		matches, err := searcher.Search(r.Context(), req.Query, topK)
		if err != nil {
			slog.Error("Regulation search failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusBadGateway, response.GeneralError(errors.New("regulation search failed")))
			return
		}

		response.WriteJSON(w, http.StatusOK, types.RegulationSearchResponse{
			Results:    matches,
			SearchType: regulationService.SearchTypeVector,
		})
	}
}
