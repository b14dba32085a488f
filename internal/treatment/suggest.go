package treatment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/smart-hospital/internal/patients"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Disclaimer is attached to every suggestion, including the fallback.
const Disclaimer = "AI SUGGESTION ONLY. Doctor must verify before approval."

const defaultSuggestTimeout = 30 * time.Second

// Suggestion is a model-proposed diagnosis for a doctor to review.
type Suggestion struct {
	Diagnosis     string   `json:"diagnosis"`
	TreatmentPlan string   `json:"treatment_plan"`
	SuggestedRx   []string `json:"suggested_rx"`
	Resources     []string `json:"resources"`
	RiskLevel     string   `json:"risk_level"`
	Disclaimer    string   `json:"disclaimer"`
}

// Fallback is returned whenever the model is unavailable or its answer cannot
// be used.
func Fallback() Suggestion {
	return Suggestion{
		Diagnosis:     "Service Unavailable",
		TreatmentPlan: "Manual Check Required",
		SuggestedRx:   []string{},
		Resources:     []string{},
		RiskLevel:     "Unknown",
		Disclaimer:    Disclaimer,
	}
}

// SuggesterConfig tunes a Suggester.
type SuggesterConfig struct {
	Model   string
	Timeout time.Duration
	Logger  *logging.Logger
}

// Suggester asks an LLM for a treatment suggestion.
type Suggester struct {
	client  LLMClient
	model   string
	timeout time.Duration
	logger  *logging.Logger
}

// NewSuggester creates a Suggester. A nil client makes every call return the
// fallback.
func NewSuggester(client LLMClient, cfg SuggesterConfig) *Suggester {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSuggestTimeout
	}
	return &Suggester{client: client, model: cfg.Model, timeout: cfg.Timeout, logger: cfg.Logger}
}

// Suggest never fails: a model error, malformed JSON or a risk level outside
// Low, Medium and High all produce Fallback().
func (s *Suggester) Suggest(ctx context.Context, symptoms string, history []patients.HistoryEntry) Suggestion {
	if s.client == nil {
		s.logger.Warn("treatment: no llm configured, returning fallback")
		return Fallback()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Complete(ctx, LLMRequest{
		Model:       s.model,
		Prompt:      buildPrompt(symptoms, history),
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		s.logger.Error("treatment: prediction failed", "error", err)
		return Fallback()
	}

	sug, err := parseSuggestion(resp.Text)
	if err != nil {
		s.logger.Error("treatment: unusable prediction", "error", err)
		return Fallback()
	}
	return sug
}

func buildPrompt(symptoms string, history []patients.HistoryEntry) string {
	var b strings.Builder
	b.WriteString("Act as a Senior Medical Assistant.\n")
	fmt.Fprintf(&b, "Analyze these symptoms: %s\n", strings.TrimSpace(symptoms))
	b.WriteString("Patient History:")
	if len(history) == 0 {
		b.WriteString(" none recorded\n")
	} else {
		b.WriteString("\n")
		for _, h := range history {
			fmt.Fprintf(&b, "- %s: %s (treatment: %s)\n", h.Date, h.DiagnosisText(), h.TreatmentText())
		}
	}
	b.WriteString(`
Provide a diagnosis and treatment plan.
Output MUST be strictly valid JSON with no markdown formatting.
Required fields:
- diagnosis (string)
- treatment_plan (string)
- suggested_rx (list of strings)
- resources (list of strings, e.g., "Oxygen", "Bed")
- risk_level (string: "Low", "Medium", "High")
`)
	return b.String()
}

func parseSuggestion(text string) (Suggestion, error) {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	var sug Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &sug); err != nil {
		return Suggestion{}, fmt.Errorf("decode: %w", err)
	}
	switch sug.RiskLevel {
	case "Low", "Medium", "High":
	default:
		return Suggestion{}, fmt.Errorf("risk level %q not in Low, Medium, High", sug.RiskLevel)
	}
	if sug.SuggestedRx == nil {
		sug.SuggestedRx = []string{}
	}
	if sug.Resources == nil {
		sug.Resources = []string{}
	}
	sug.Disclaimer = Disclaimer
	return sug, nil
}
