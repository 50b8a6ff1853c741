package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aristath/ledgerwise/internal/domain"
	"github.com/aristath/ledgerwise/internal/modules/transactions"
	"google.golang.org/genai"
)

const classifierInstruction = "Classify a bank transaction. Reply with a JSON object " +
	`{"category": string, "type": "credit"|"debit"|"transfer"|"fee"}. ` +
	"Use short snake_case categories such as groceries, dining, income, utilities, transfer."

// Classifier assigns categories to transaction descriptions
type Classifier struct {
	client *Client
}

// NewClassifier creates a classifier on top of a client
func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

type classifierReply struct {
	Category string `json:"category"`
	Type     string `json:"type"`
}

// Classify implements transactions.Classifier
func (c *Classifier) Classify(ctx context.Context, description string, amount float64) (transactions.Classification, error) {
	prompt := fmt.Sprintf("Description: %q\nAmount: %.2f", description, amount)
	text, err := c.client.Generate(ctx, classifierInstruction, prompt, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return transactions.Classification{}, err
	}
	return parseClassification(text)
}

func parseClassification(text string) (transactions.Classification, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var reply classifierReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &reply); err != nil {
		return transactions.Classification{}, fmt.Errorf("failed to parse classification: %w", err)
	}

	category := strings.ToLower(strings.TrimSpace(reply.Category))
	if category == "" {
		return transactions.Classification{}, fmt.Errorf("classification has no category")
	}
	txType := domain.TransactionType(strings.ToLower(strings.TrimSpace(reply.Type)))
	switch txType {
	case domain.TransactionCredit, domain.TransactionDebit, domain.TransactionTransfer, domain.TransactionFee:
	default:
		return transactions.Classification{}, fmt.Errorf("unknown transaction type %q", reply.Type)
	}
	return transactions.Classification{Category: category, Type: txType, Source: "gemini"}, nil
}
