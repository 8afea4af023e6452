package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"expensebot/internal/logging"
	"expensebot/internal/models"
)

// AIClient produces a category pair for a description, typically by calling
// an external model.
type AIClient interface {
	DetectTypes(ctx context.Context, desc string) (models.TypePair, error)
}

// AIStrategy is the optional last tier of the pipeline. Any client error
// degrades to "no match" so the sentinel semantics of the detector hold.
type AIStrategy struct {
	client AIClient
	logger logging.Logger
}

// NewAIStrategy wraps an AIClient as a pipeline strategy.
func NewAIStrategy(client AIClient, logger logging.Logger) *AIStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &AIStrategy{client: client, logger: logger}
}

// Name returns the name of this strategy for logging.
func (s *AIStrategy) Name() string { return "AI" }

// Detect asks the AI client for a category pair.
func (s *AIStrategy) Detect(ctx context.Context, descLower string) (models.TypePair, bool) {
	if s.client == nil {
		return models.TypePair{}, false
	}
	pair, err := s.client.DetectTypes(ctx, descLower)
	if err != nil {
		s.logger.WithError(err).WithField("desc", descLower).Warn("AI type detection failed")
		return models.TypePair{}, false
	}
	if pair.IsZero() {
		return models.TypePair{}, false
	}
	return pair, true
}

// GeminiClient implements AIClient over the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient creates a Gemini-backed AIClient.
func NewGeminiClient(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// DetectTypes prompts the model for a main/sub category pair.
func (c *GeminiClient) DetectTypes(ctx context.Context, desc string) (models.TypePair, error) {
	prompt := fmt.Sprintf(`Classify the following personal expense description into a two-level category.

Description: %s

Respond with exactly two lines in this format:
Main: [main category, e.g. Food, Household, Travel]
Sub: [sub category, e.g. Groceries, Outside Food/Dining/Snacks]`, desc)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.TypePair{}, fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return models.TypePair{}, fmt.Errorf("empty response from gemini api")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	pair := parseTypeResponse(text)

	c.logger.WithFields(
		logging.Field{Key: "desc", Value: desc},
		logging.Field{Key: "main_type", Value: pair.MainType},
		logging.Field{Key: "sub_type", Value: pair.SubType},
	).Debug("Gemini classified description")
	return pair, nil
}

// parseTypeResponse extracts the "Main:"/"Sub:" lines of a model response.
func parseTypeResponse(response string) models.TypePair {
	var pair models.TypePair
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Main:"):
			pair.MainType = strings.TrimSpace(strings.TrimPrefix(line, "Main:"))
		case strings.HasPrefix(line, "Sub:"):
			pair.SubType = strings.TrimSpace(strings.TrimPrefix(line, "Sub:"))
		}
	}
	if pair.MainType == "" || pair.SubType == "" {
		return models.TypePair{}
	}
	return pair
}
