package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gasgenie/gasgenie-service/internal/services/gemini"
	"github.com/gasgenie/gasgenie-service/internal/types"
)

const systemPrompt = `You are Gas Genie, an expert UK gas engineer and plumber with decades of experience.
You are analysing a photo taken on-site by a gas engineer or plumber.

Your task is to identify:
1. Any error codes displayed on boiler/appliance screens
2. Installation defects or compliance issues
3. Equipment condition and faults
4. Safety concerns

You MUST respond in this exact JSON format:
{
  "diagnosis": "Clear description of what you see and the likely issue",
  "severity": "low" | "medium" | "high" | "critical",
  "possible_causes": ["cause 1", "cause 2", "cause 3"],
  "next_steps": ["step 1", "step 2", "step 3"],
  "safety_warning": "Any safety warnings, or null if none",
  "confidence": 0.0 to 1.0
}

Rules:
- Always refer to UK Gas Safety Regulations
- If you see a gas leak indication, set severity to "critical" and safety_warning to "If you smell gas, call the National Gas Emergency Service: 0800 111 999"
- Reference specific boiler models/brands when identifiable
- Be specific about error codes (e.g. "E119 on Vaillant ecoTEC = ignition failure")
- If the image is unclear, set confidence low and say so in the diagnosis
- Always include practical next steps a qualified engineer would take`

const instruction = "Analyse this photo and provide your diagnosis in the JSON format specified. Only return the JSON, no other text."

// maxImageBytes is the largest remote image the analyzer will send to the model.
const maxImageBytes = 20 << 20

var (
	ErrFetchImage = errors.New("could not fetch photo")
	ErrAnalysis   = errors.New("AI analysis failed")

	errImageTooLarge = fmt.Errorf("image larger than %d bytes", maxImageBytes)

	jsonObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// Model is the vision model the analyzer prompts.
type Model interface {
	GenerateJSON(ctx context.Context, parts []gemini.Part) (string, error)
	VisionModel() string
}

// Recorder persists finished analyses.
type Recorder interface {
	SavePhotoAnalysis(ctx context.Context, analysis types.PhotoAnalysis) (string, error)
}

type Analyzer struct {
	model      Model
	recorder   Recorder
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAnalyzer(model Model, recorder Recorder, httpClient *http.Client, logger *slog.Logger) *Analyzer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Analyzer{
		model:      model,
		recorder:   recorder,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "vision_analyzer")),
	}
}

// Analyze downloads the photo, asks the model for a diagnosis and stores the result for
// userID. A reply that is not valid JSON yields FallbackDiagnosis rather than an error.
func (a *Analyzer) Analyze(ctx context.Context, userID, photoURL string) (types.Diagnosis, error) {
	data, mimeType, err := a.fetch(ctx, photoURL)
	if err != nil {
		return types.Diagnosis{}, fmt.Errorf("%w: %w", ErrFetchImage, err)
	}

	text, err := a.model.GenerateJSON(ctx, []gemini.Part{
		{Text: systemPrompt},
		{InlineData: &gemini.InlineData{MimeType: mimeType, Data: data}},
		{Text: instruction},
	})
	if err != nil {
		return types.Diagnosis{}, fmt.Errorf("%w: %w", ErrAnalysis, err)
	}

	diagnosis := ParseDiagnosis(text)

	if userID != "" && a.recorder != nil {
		raw, _ := json.Marshal(diagnosis)
		_, err := a.recorder.SavePhotoAnalysis(ctx, types.PhotoAnalysis{
			UserID:    userID,
			PhotoURL:  photoURL,
			Analysis:  raw,
			ModelUsed: a.model.VisionModel(),
		})
		if err != nil {
			a.logger.Error("Failed to save photo analysis",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		}
	}

	return diagnosis, nil
}

func (a *Analyzer) fetch(ctx context.Context, photoURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxImageBytes {
		return nil, "", errImageTooLarge
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

// ParseDiagnosis reads the first {...} block of text as a Diagnosis.
func ParseDiagnosis(text string) types.Diagnosis {
	candidate := text
	if m := jsonObject.FindString(text); m != "" {
		candidate = m
	}

	var d types.Diagnosis
	if err := json.Unmarshal([]byte(candidate), &d); err != nil {
		return FallbackDiagnosis(text)
	}
	if d.PossibleCauses == nil {
		d.PossibleCauses = []string{}
	}
	if d.NextSteps == nil {
		d.NextSteps = []string{}
	}
	return d
}

// FallbackDiagnosis is returned when the model reply cannot be parsed. The raw reply, if
// any, becomes the diagnosis text.
func FallbackDiagnosis(text string) types.Diagnosis {
	if text == "" {
		text = "Unable to analyse this image. Please try a clearer photo."
	}
	return types.Diagnosis{
		Diagnosis:      text,
		Severity:       types.SeverityLow,
		PossibleCauses: []string{},
		NextSteps: []string{
			"Try uploading a clearer photo",
			"Ensure the subject is well-lit",
		},
		Confidence: 0.2,
	}
}
