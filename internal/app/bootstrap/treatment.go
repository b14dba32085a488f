package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/smart-hospital/internal/config"
	"github.com/wolfman30/smart-hospital/internal/treatment"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// BuildLLMClient returns the client selected by LLM_PROVIDER, or nil when
// suggestions are disabled or the provider is not configured. With both a
// Gemini key and a Bedrock model configured, the other provider becomes the
// fallback.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, loadAWS AWSLoader, logger *logging.Logger) (treatment.LLMClient, func(), error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}

	var gemini *treatment.GeminiClient
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		g, err := treatment.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		gemini = g
	}
	closeGemini := noop
	if gemini != nil {
		closeGemini = func() { _ = gemini.Close() }
	}

	var bedrock *treatment.BedrockClient
	if strings.TrimSpace(cfg.BedrockModelID) != "" && loadAWS != nil {
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			closeGemini()
			return nil, nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		bedrock = treatment.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
	}

	switch cfg.LLMProvider {
	case "none":
		closeGemini()
		logger.Info("treatment suggestions disabled")
		return nil, noop, nil
	case "", "gemini":
		if gemini == nil {
			logger.Warn("GEMINI_API_KEY not set, treatment suggestions will use the fallback")
			return nil, noop, nil
		}
		if bedrock != nil {
			return treatment.NewFallbackClient(gemini, bedrock, logger), closeGemini, nil
		}
		return gemini, closeGemini, nil
	case "bedrock":
		if bedrock == nil {
			closeGemini()
			logger.Warn("BEDROCK_MODEL_ID not set, treatment suggestions will use the fallback")
			return nil, noop, nil
		}
		if gemini != nil {
			return treatment.NewFallbackClient(bedrock, gemini, logger), closeGemini, nil
		}
		return bedrock, noop, nil
	default:
		closeGemini()
		return nil, nil, fmt.Errorf("bootstrap: unknown llm provider %q", cfg.LLMProvider)
	}
}
