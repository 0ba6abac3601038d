package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIOptions struct {
	APIKey         string
	Model          string
	ScoreThreshold float64
	Timeout        time.Duration
	// Labels, when set, restricts the answer to known food labels.
	Labels []string
	// BaseURL overrides the OpenAI API endpoint.
	BaseURL string
}

// OpenAIClassifier asks a vision-capable chat model to label the image.
type OpenAIClassifier struct {
	client         *openai.Client
	model          string
	scoreThreshold float64
	timeout        time.Duration
	labels         []string
}

func NewOpenAIClassifier(opts OpenAIOptions) *OpenAIClassifier {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClassifier{
		client:         openai.NewClientWithConfig(cfg),
		model:          model,
		scoreThreshold: opts.ScoreThreshold,
		timeout:        opts.Timeout,
		labels:         opts.Labels,
	}
}

type openAIPredictions struct {
	Predictions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"predictions"`
}

func (c *OpenAIClassifier) prompt() string {
	var b strings.Builder
	b.WriteString("Identify the food in this image. Reply with JSON of the form ")
	b.WriteString(`{"predictions":[{"label":"snake_case_label","score":0.0}]}`)
	b.WriteString(" where score is your confidence between 0 and 1, best first.")
	if len(c.labels) > 0 {
		b.WriteString(" Prefer one of these labels: ")
		b.WriteString(strings.Join(c.labels, ", "))
		b.WriteString(".")
	}
	b.WriteString(" Reply with an empty list when there is no food.")
	return b.String()
}

func (c *OpenAIClassifier) Classify(ctx context.Context, image []byte) ([]Prediction, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(image), base64.StdEncoding.EncodeToString(image))
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: c.prompt()},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var resp openai.ChatCompletionResponse
	err := withRetry(ctx, c.timeout, func(ctx context.Context) error {
		var err error
		resp, err = c.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrUpstream)
	}

	var out openAIPredictions
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("%w: failed to parse predictions: %v", ErrUpstream, err)
	}

	preds := make([]Prediction, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		if p.Label == "" || p.Score < c.scoreThreshold {
			continue
		}
		preds = append(preds, Prediction{Label: p.Label, Score: p.Score})
	}
	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Score > preds[j].Score })
	return preds, nil
}
