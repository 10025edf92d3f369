package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
)

// Client generates optional match enrichment (a short "why you match"
// blurb and icebreaker openers). It is best-effort: every caller must
// tolerate it failing or being absent.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// MatchExplanation writes a 1-2 sentence explanation of why the two
// profiles are a good match.
func (c *Client) MatchExplanation(ctx context.Context, a, b *domain.UserProfile) (string, error) {
	prompt := fmt.Sprintf(`Two people just matched on a dating app.
Person 1: name %q, bio %q.
Person 2: name %q, bio %q.

Write a short, warm explanation (1-2 sentences) of why they might hit it off.
Output: just the explanation text.`,
		a.FullName, a.Bio, b.FullName, b.Bio)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("no content generated")
	}
	return text, nil
}

// Icebreakers proposes three opening lines person a could send to b.
func (c *Client) Icebreakers(ctx context.Context, a, b *domain.UserProfile) ([]string, error) {
	prompt := fmt.Sprintf(`Generate 3 creative icebreaker messages for a dating app match.
Sender bio: %q. Recipient bio: %q.

Output: a JSON array of 3 strings, nothing else.`, a.Bio, b.Bio)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	text := responseText(resp)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var icebreakers []string
	if err := json.Unmarshal([]byte(text), &icebreakers); err != nil {
		return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
	}
	return icebreakers, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String())
}
