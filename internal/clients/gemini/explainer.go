package gemini

import (
	"context"
	"fmt"

	"github.com/aristath/ledgerwise/internal/modules/narrative"
	"google.golang.org/genai"
)

const explainerInstruction = "You are a financial assistant. In at most two short sentences, " +
	"explain a user's risk score in plain language. Do not give investment advice " +
	"and do not invent figures that are not in the prompt."

// Explainer produces risk score explanations
type Explainer struct {
	client *Client
}

// NewExplainer creates an explainer on top of a client
func NewExplainer(client *Client) *Explainer {
	return &Explainer{client: client}
}

// Explain implements narrative.Explainer
func (e *Explainer) Explain(ctx context.Context, req narrative.Request) (string, error) {
	prompt := fmt.Sprintf(
		"Risk score: %d/100. Profile: %s. Spending trend: %s. Spending volatility: %.1f%%.",
		req.Score, req.Profile, req.Trend, req.Volatility,
	)
	return e.client.Generate(ctx, explainerInstruction, prompt, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 120,
	})
}
