package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gasgenie/gasgenie-service/internal/services/regulations"
	"github.com/gasgenie/gasgenie-service/internal/types"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
)

const (
	ToolSearchRegulations = "search_regulations"
	ToolLogJob            = "log_job"
	ToolLogHours          = "log_hours"
	ToolLogMileage        = "log_mileage"

	voiceSearchTopK   = 3
	searchUnavailable = "Regulation search is not available at this time."
)

type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]types.RegulationMatch, error)
}

// Logbook persists what the assistant records during a call.
type Logbook interface {
	CreateJob(ctx context.Context, job types.Job) (string, error)
	LogWorkHours(ctx context.Context, entry types.WorkHours) (string, error)
	LogMileage(ctx context.Context, entry types.MileageLog) (string, error)
}

type webhookRequest struct {
	Message struct {
		ToolCalls []toolCall `json:"toolCalls"`
	} `json:"message"`
}

type toolCall struct {
	ID       string `json:"id"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// toolArgs is the union of every tool's arguments.
type toolArgs struct {
	UserID       string  `json:"user_id"`
	Query        string  `json:"query"`
	Description  string  `json:"description"`
	CustomerName string  `json:"customer_name"`
	Address      string  `json:"address"`
	JobID        string  `json:"job_id"`
	Notes        string  `json:"notes"`
	Hours        float64 `json:"hours"`
	Miles        float64 `json:"miles"`
}

type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

type ToolResponse struct {
	Results []ToolResult `json:"results"`
}

// parseArgs accepts arguments encoded as a JSON string or as an object.
func parseArgs(raw json.RawMessage) (toolArgs, error) {
	var args toolArgs
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if encoded == "" {
			return args, nil
		}
		raw = json.RawMessage(encoded)
	}

	if err := json.Unmarshal(raw, &args); err != nil {
		return toolArgs{}, err
	}
	return args, nil
}

type ToolHandler struct {
	searcher Searcher
	logbook  Logbook
}

// NewToolHandler builds the webhook. searcher may be nil when regulation search is not
// configured.
func NewToolHandler(searcher Searcher, logbook Logbook) *ToolHandler {
	return &ToolHandler{searcher: searcher, logbook: logbook}
}

// ServeHTTP answers the voice assistant's tool calls
// @Summary Voice assistant tool webhook
// @Description Runs the first tool call in the message: search_regulations, log_job, log_hours or log_mileage
// @Tags voice
// @Accept json
// @Produce json
// @Success 200 {object} voice.ToolResponse "Tool result"
// @Failure 400 {object} map[string]string "No tool calls found"
// @Router /voice/tools [post]
func (h *ToolHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, content-type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Message.ToolCalls) == 0 {
		response.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "No tool calls found"})
		return
	}

	call := req.Message.ToolCalls[0]
	args, err := parseArgs(call.Function.Arguments)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid tool arguments"})
		return
	}

	result, err := h.run(r.Context(), call.Function.Name, args)
	if err != nil {
		slog.Error("Voice tool failed",
			slog.String("tool", call.Function.Name),
			slog.String("user_id", args.UserID),
			slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	response.WriteJSON(w, http.StatusOK, ToolResponse{
		Results: []ToolResult{{ToolCallID: call.ID, Result: result}},
	})
}

func (h *ToolHandler) run(ctx context.Context, name string, args toolArgs) (string, error) {
	switch name {
	case ToolSearchRegulations:
		return h.searchRegulations(ctx, args.Query), nil

	case ToolLogJob:
		if _, err := h.logbook.CreateJob(ctx, types.Job{
			UserID:       args.UserID,
			Description:  args.Description,
			CustomerName: args.CustomerName,
			Address:      args.Address,
		}); err != nil {
			return "", fmt.Errorf("log job: %w", err)
		}
		description := args.Description
		if description == "" {
			description = "New job"
		}
		return "Job logged: " + description, nil

	case ToolLogHours:
		if _, err := h.logbook.LogWorkHours(ctx, types.WorkHours{
			UserID: args.UserID,
			Hours:  args.Hours,
			JobID:  args.JobID,
			Notes:  args.Notes,
		}); err != nil {
			return "", fmt.Errorf("log hours: %w", err)
		}
		return "Logged " + formatNumber(args.Hours) + " hours", nil

	case ToolLogMileage:
		if _, err := h.logbook.LogMileage(ctx, types.MileageLog{
			UserID: args.UserID,
			Miles:  args.Miles,
			JobID:  args.JobID,
			Notes:  args.Notes,
		}); err != nil {
			return "", fmt.Errorf("log mileage: %w", err)
		}
		return "Logged " + formatNumber(args.Miles) + " miles", nil

	default:
		return "Unknown tool: " + name, nil
	}
}

// searchRegulations never fails the call: the assistant reads the fallback text instead.
func (h *ToolHandler) searchRegulations(ctx context.Context, query string) string {
	if h.searcher == nil {
		return searchUnavailable
	}

	matches, err := h.searcher.Search(ctx, query, voiceSearchTopK)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("Voice regulation search failed", slog.String("error", err.Error()))
		}
		return searchUnavailable
	}

	text := regulations.FormatForVoice(matches)
	if text == "" {
		return searchUnavailable
	}
	return text
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
