package types

import "encoding/json"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Diagnosis is the structured answer the vision model is prompted to return.
type Diagnosis struct {
	Diagnosis      string   `json:"diagnosis"`
	Severity       Severity `json:"severity"`
	PossibleCauses []string `json:"possible_causes"`
	NextSteps      []string `json:"next_steps"`
	SafetyWarning  *string  `json:"safety_warning"`
	Confidence     float64  `json:"confidence"`
}

type DiagnosisRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url"`
}

type PhotoAnalysis struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	PhotoURL  string          `json:"photo_url"`
	Analysis  json.RawMessage `json:"analysis"`
	ModelUsed string          `json:"model_used"`
	CreatedAt string          `json:"created_at"`
}

type RegulationMatch struct {
	Source    string `json:"source"`
	Section   string `json:"section"`
	Content   string `json:"content"`
	Relevance int    `json:"relevance"`
}

type RegulationSearchRequest struct {
	Query string `json:"query" validate:"required,max=1000"`
}

type RegulationSearchResponse struct {
	Results    []RegulationMatch `json:"results"`
	SearchType string            `json:"search_type"`
}

type Job struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Description  string `json:"description"`
	CustomerName string `json:"customer_name,omitempty"`
	Address      string `json:"address,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

type WorkHours struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Hours     float64 `json:"hours"`
	JobID     string  `json:"job_id,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type MileageLog struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Miles     float64 `json:"miles"`
	JobID     string  `json:"job_id,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// HoursSummary is one day of logged work.
type HoursSummary struct {
	Date       string      `json:"date"`
	Entries    []WorkHours `json:"entries"`
	TotalHours float64     `json:"total_hours"`
}

// MileageSummary is one day of logged driving.
type MileageSummary struct {
	Date       string       `json:"date"`
	Entries    []MileageLog `json:"entries"`
	TotalMiles float64      `json:"total_miles"`
}
