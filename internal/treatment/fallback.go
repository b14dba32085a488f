package treatment

import (
	"context"

	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// FallbackClient tries primary first and secondary when primary fails.
type FallbackClient struct {
	primary   LLMClient
	secondary LLMClient
	logger    *logging.Logger
}

// NewFallbackClient wraps primary. A nil secondary makes it a pass-through.
func NewFallbackClient(primary, secondary LLMClient, logger *logging.Logger) *FallbackClient {
	if primary == nil {
		panic("treatment: primary llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackClient{primary: primary, secondary: secondary, logger: logger}
}

func (c *FallbackClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}
	c.logger.Warn("primary llm failed", "error", err, "fallback_available", c.secondary != nil)
	if c.secondary == nil {
		return LLMResponse{}, err
	}

	resp, fbErr := c.secondary.Complete(ctx, req)
	if fbErr != nil {
		c.logger.Error("fallback llm also failed", "primary_error", err, "fallback_error", fbErr)
		return LLMResponse{}, fbErr
	}
	c.logger.Info("fallback llm succeeded after primary failure")
	return resp, nil
}

var _ LLMClient = (*FallbackClient)(nil)
