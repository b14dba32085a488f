package treatment

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(_ context.Context, in *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = in
	return f.out, f.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}},
		}},
		StopReason: brtypes.StopReasonEndTurn,
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(12),
			OutputTokens: aws.Int32(30),
			TotalTokens:  aws.Int32(42),
		},
	}
}

func TestBedrockClient_Complete(t *testing.T) {
	api := &fakeConverse{out: textOutput("  " + validAnswer + "\n")}
	client := NewBedrockClient(api, "anthropic.test-model")

	resp, err := client.Complete(context.Background(), LLMRequest{
		System:      []string{"be brief", " "},
		Prompt:      "symptoms",
		MaxTokens:   256,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, validAnswer, resp.Text)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, int32(42), resp.Usage.TotalTokens)

	require.NotNil(t, api.input)
	assert.Equal(t, "anthropic.test-model", aws.ToString(api.input.ModelId))
	assert.Len(t, api.input.System, 1)
	require.Len(t, api.input.Messages, 1)
	assert.Equal(t, brtypes.ConversationRoleUser, api.input.Messages[0].Role)
	assert.Equal(t, int32(256), aws.ToInt32(api.input.InferenceConfig.MaxTokens))
}

func TestBedrockClient_Errors(t *testing.T) {
	_, err := NewBedrockClient(&fakeConverse{}, "").Complete(context.Background(), LLMRequest{Prompt: "p"})
	assert.ErrorContains(t, err, "model id is required")

	_, err = NewBedrockClient(&fakeConverse{}, "m").Complete(context.Background(), LLMRequest{Prompt: "  "})
	assert.ErrorContains(t, err, "prompt is required")

	_, err = NewBedrockClient(&fakeConverse{err: errors.New("throttled")}, "m").Complete(context.Background(), LLMRequest{Prompt: "p"})
	assert.ErrorContains(t, err, "throttled")

	_, err = NewBedrockClient(&fakeConverse{out: textOutput("   ")}, "m").Complete(context.Background(), LLMRequest{Prompt: "p"})
	assert.ErrorContains(t, err, "no text")

	_, err = NewBedrockClient(&fakeConverse{out: &bedrockruntime.ConverseOutput{}}, "m").Complete(context.Background(), LLMRequest{Prompt: "p"})
	assert.ErrorContains(t, err, "did not include a message")
}

func TestSuggesterOverBedrock(t *testing.T) {
	api := &fakeConverse{out: textOutput("```json\n" + validAnswer + "\n```")}
	s := newTestSuggester(NewBedrockClient(api, "m"))
	assert.Equal(t, "Migraine", s.Suggest(context.Background(), "headache", nil).Diagnosis)
}
