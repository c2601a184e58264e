// Package assist calls the generative-language API for payment-intent
// parsing and the support chat. Both are opaque remote collaborators:
// any failure is mapped to a graceful fallback, never a crash.
package assist

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/models"
)

// modelName is the generative model used for both parsing and chat.
const modelName = "gemini-2.5-flash"

// offlineFallback is returned when the chat service cannot be reached.
const offlineFallback = "I am currently offline. Please try again later."

// Client wraps the genai client.
type Client struct {
	client *genai.Client
	logger *zap.Logger
}

// New initializes the generative-language client. An empty API key
// falls back to the SDK's environment-based configuration.
func New(ctx context.Context, apiKey string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var cfg *genai.ClientConfig
	if apiKey != "" {
		cfg = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing genai client: %w", err)
	}
	return &Client{client: client, logger: logger}, nil
}

// intentSchema constrains the model to the structured intent shape.
var intentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recipientName": {Type: genai.TypeString},
		"paymentAddress": {
			Type:        genai.TypeString,
			Description: "Explicit payment address (name@handle) found in the text, or empty string.",
		},
		"amount": {Type: genai.TypeNumber},
		"note":   {Type: genai.TypeString},
		"recurrence": {
			Type:        genai.TypeString,
			Nullable:    genai.Ptr(true),
			Description: "Frequency if recurring (e.g. Monthly), else null.",
		},
	},
	Required: []string{"recipientName", "amount", "paymentAddress", "note"},
}

const intentPrompt = `Analyze this payment request: %q.

Extract the following information:
1. Recipient Name: the person or entity to pay.
2. Amount: the numeric value. Return 0 if not found.
3. Payment Address: look for patterns like username@bank or number@upi. Extract it if explicitly mentioned, otherwise return an empty string.
4. Note: a brief description.
5. Recurrence: if the payment implies a schedule ("monthly", "weekly", "every Friday"), the frequency as a capitalized word (e.g. "Monthly"). Null for one-time payments.`

// ParseIntent turns a free-text payment instruction into a structured
// intent. Any failure is an ErrRemoteService; the caller leaves the
// user on the input screen.
func (c *Client) ParseIntent(ctx context.Context, text string) (*models.PaymentIntent, error) {
	resp, err := c.client.Models.GenerateContent(ctx, modelName,
		genai.Text(fmt.Sprintf(intentPrompt, text)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   intentSchema,
		})
	if err != nil {
		c.logger.Warn("intent parsing failed", zap.Error(err))
		return nil, apperrors.RemoteService("could not understand the payment request", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, apperrors.RemoteService("empty response from intent parser", nil)
	}

	var parsed struct {
		RecipientName  string  `json:"recipientName"`
		PaymentAddress string  `json:"paymentAddress"`
		Amount         float64 `json:"amount"`
		Note           string  `json:"note"`
		Recurrence     string  `json:"recurrence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		c.logger.Warn("intent response not decodable", zap.Error(err))
		return nil, apperrors.RemoteService("unreadable response from intent parser", err)
	}

	intent := &models.PaymentIntent{
		RecipientName:  parsed.RecipientName,
		PaymentAddress: parsed.PaymentAddress,
		Amount:         parsed.Amount,
		Note:           parsed.Note,
		Recurrence:     parsed.Recurrence,
	}
	if intent.RecipientName == "" {
		intent.RecipientName = "Unknown"
	}
	if intent.Note == "" {
		intent.Note = "Payment"
	}
	return intent, nil
}

const supportInstruction = `You are the AI support agent for LuminaPay.

CURRENT USER CONTEXT:
%s

GUIDELINES:
1. Use the context above to answer specific questions about the user's balance, transactions, or stock prices.
2. If asked about stocks, analyze the "market" data provided in the context.
3. Be friendly, concise, and helpful.
4. If the user asks to perform an action (like "block card"), explain how to do it in the app settings.`

// SupportReply answers one support message given the prior
// conversation and a freshly serialized user-context blob. A failed or
// empty call degrades to the fixed offline fallback.
func (c *Client) SupportReply(ctx context.Context, history []models.ChatMessage, contextBlob, message string) string {
	var priors []*genai.Content
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == "model" {
			role = genai.RoleModel
		}
		priors = append(priors, genai.NewContentFromText(m.Text, role))
	}

	chat, err := c.client.Chats.Create(ctx, modelName,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(
				fmt.Sprintf(supportInstruction, contextBlob), genai.RoleUser),
		}, priors)
	if err != nil {
		c.logger.Warn("support chat create failed", zap.Error(err))
		return offlineFallback
	}

	resp, err := chat.Send(ctx, &genai.Part{Text: message})
	if err != nil {
		c.logger.Warn("support chat send failed", zap.Error(err))
		return offlineFallback
	}
	if reply := resp.Text(); reply != "" {
		return reply
	}
	return "I'm having trouble connecting right now. Please try again later."
}
