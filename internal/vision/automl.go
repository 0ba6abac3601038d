package vision

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultAutoMLEndpoint = "https://automl.googleapis.com/v1"
	cloudPlatformScope    = "https://www.googleapis.com/auth/cloud-platform"
)

type AutoMLOptions struct {
	Project        string
	Region         string
	ModelID        string
	ScoreThreshold float64
	Timeout        time.Duration

	// Endpoint overrides DefaultAutoMLEndpoint.
	Endpoint string
	// TokenSource overrides Google application default credentials.
	TokenSource oauth2.TokenSource
}

// AutoMLClassifier calls a Cloud AutoML Vision model's predict method.
type AutoMLClassifier struct {
	client         *resty.Client
	modelPath      string
	scoreThreshold float64
}

func NewAutoMLClassifier(ctx context.Context, opts AutoMLOptions) (*AutoMLClassifier, error) {
	ts := opts.TokenSource
	if ts == nil {
		var err error
		ts, err = google.DefaultTokenSource(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("failed to load google credentials: %w", err)
		}
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultAutoMLEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = attemptTimeout
	}

	client := resty.NewWithClient(oauth2.NewClient(ctx, ts))
	client.SetBaseURL(strings.TrimRight(endpoint, "/"))
	client.SetTimeout(timeout)
	client.SetRetryCount(1)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || (r != nil && (r.StatusCode() == 429 || r.StatusCode() >= 500))
	})

	return &AutoMLClassifier{
		client:         client,
		modelPath:      ModelPath(opts.Project, opts.Region, opts.ModelID),
		scoreThreshold: opts.ScoreThreshold,
	}, nil
}

// ModelPath is the AutoML resource name of a model.
func ModelPath(project, region, modelID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/models/%s", project, region, modelID)
}

type automlPredictRequest struct {
	Payload struct {
		Image struct {
			ImageBytes []byte `json:"imageBytes"`
		} `json:"image"`
	} `json:"payload"`
	Params map[string]string `json:"params,omitempty"`
}

type automlPredictResponse struct {
	Payload []struct {
		DisplayName    string `json:"displayName"`
		Classification *struct {
			Score float64 `json:"score"`
		} `json:"classification"`
	} `json:"payload"`
}

func (c *AutoMLClassifier) Classify(ctx context.Context, image []byte) ([]Prediction, error) {
	log.Printf("vision: classifying %d bytes with %s", len(image), c.modelPath)

	var req automlPredictRequest
	req.Payload.Image.ImageBytes = image
	req.Params = map[string]string{
		"score_threshold": strconv.FormatFloat(c.scoreThreshold, 'f', -1, 64),
	}

	var out automlPredictResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/" + c.modelPath + ":predict")
	if err != nil {
		return nil, fmt.Errorf("%w: predict: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: API error %d: %s", ErrUpstream, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	preds := make([]Prediction, 0, len(out.Payload))
	for _, p := range out.Payload {
		if p.Classification == nil {
			continue
		}
		preds = append(preds, Prediction{Label: p.DisplayName, Score: p.Classification.Score})
	}
	return preds, nil
}
