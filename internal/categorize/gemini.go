package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"spendtrack/internal/core"
)

const categorizePromptTemplate = `You are an expert expense categorization engine.
Given an expense description, assign the single most relevant category.
Valid categories: %s.
Respond with a JSON object of the form {"category": "<category>"} and nothing else.

Expense description: %q`

// Gemini implements Categorizer using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini categorizer instance.
func NewGemini(ctx context.Context, apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Categorize asks the model for the best-fitting category. An unknown
// category in the response maps to Other; transport or parse failures are
// returned as errors for the caller's fallback handling.
func (g *Gemini) Categorize(ctx context.Context, description string) (core.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	names := make([]string, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		names = append(names, string(c))
	}
	prompt := fmt.Sprintf(categorizePromptTemplate, strings.Join(names, ", "), description)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	category, err := parseCategoryJSON(responseText.String())
	if err != nil {
		return "", fmt.Errorf("parsing categorization response: %w", err)
	}
	return category, nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func parseCategoryJSON(text string) (core.Category, error) {
	// Remove markdown code blocks if present
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var payload struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return "", err
	}

	category, ok := core.ParseCategory(payload.Category)
	if !ok {
		// The model wandered outside the closed set; treat as Other
		// rather than failing the expense.
		return core.CategoryOther, nil
	}
	return category, nil
}
