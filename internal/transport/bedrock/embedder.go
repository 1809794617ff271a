// Package bedrock provides text embeddings via AWS Bedrock Titan models.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/learnia-cloud/course-search/internal/domain"
	"github.com/learnia-cloud/course-search/internal/metrics"
)

const (
	providerName = "bedrock"
	maxAttempts  = 4
)

// invoker is the consumed slice of the Bedrock runtime client (mockable).
type invoker interface {
	InvokeModel(
		ctx context.Context, params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.InvokeModelOutput, error)
}

// Embedder generates normalized embeddings with a Titan text embedding model.
type Embedder struct {
	client        invoker
	model         string
	dimensions    int
	retryInterval time.Duration
	logger        *zap.Logger
}

// Config holds the Bedrock provider settings.
type Config struct {
	Model             string
	Region            string
	Dimensions        int
	ConnectTimeoutSec int
	ReadTimeoutSec    int
	Logger            *zap.Logger
}

// NewEmbedder creates a Bedrock embedding provider. Credentials come from the
// default AWS chain (environment, shared config, instance role).
func NewEmbedder(ctx context.Context, cfg *Config) (*Embedder, error) {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.ReadTimeoutSec) * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: time.Duration(cfg.ConnectTimeoutSec) * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: time.Duration(cfg.ConnectTimeoutSec) * time.Second,
		},
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Embedder{
		client:        bedrockruntime.NewFromConfig(awsCfg),
		model:         cfg.Model,
		dimensions:    cfg.Dimensions,
		retryInterval: time.Second,
		logger:        cfg.Logger,
	}, nil
}

// newWithClient wires a pre-built invoker with a short retry interval, used by tests.
func newWithClient(client invoker, model string, dimensions int, logger *zap.Logger) *Embedder {
	return &Embedder{
		client:        client,
		model:         model,
		dimensions:    dimensions,
		retryInterval: time.Millisecond,
		logger:        logger,
	}
}

// titanRequest is the Titan text embedding invocation payload.
type titanRequest struct {
	InputText string `json:"inputText"`
}

// titanResponse is the Titan embedding response body.
type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embed implements domain.Embedder. Transient invocation failures are retried
// up to maxAttempts with exponential backoff and jitter; malformed responses
// are not retried. The final failure surfaces as ErrServiceUnavailable.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = e.retryInterval
	expo.RandomizationFactor = 0.25
	expo.MaxElapsedTime = 0

	var policy backoff.BackOff = backoff.WithContext(expo, ctx)
	policy = backoff.WithMaxRetries(policy, maxAttempts-1)

	attempt := 0
	result, err := backoff.RetryNotifyWithData(
		func() (domain.EmbeddingResult, error) {
			attempt++
			return e.invoke(ctx, text)
		},
		policy,
		func(err error, next time.Duration) {
			e.logger.Warn("Bedrock request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		},
	)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("%w: bedrock embedding: %w", domain.ErrServiceUnavailable, err)
	}
	return result, nil
}

func (e *Embedder) invoke(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	payload, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return domain.EmbeddingResult{}, backoff.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	start := time.Now()

	out, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "api_error").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("invoke model: %w", err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "bad_response").Inc()
		return domain.EmbeddingResult{}, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	if len(resp.Embedding) == 0 {
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "empty_response").Inc()
		return domain.EmbeddingResult{}, backoff.Permanent(fmt.Errorf("response has no embedding field"))
	}
	if e.dimensions > 0 && len(resp.Embedding) != e.dimensions {
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "dim_mismatch").Inc()
		return domain.EmbeddingResult{}, backoff.Permanent(
			fmt.Errorf("unexpected embedding dimension %d (want %d)", len(resp.Embedding), e.dimensions))
	}

	normalized, err := normalize(resp.Embedding)
	if err != nil {
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "bad_response").Inc()
		return domain.EmbeddingResult{}, backoff.Permanent(err)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, e.model).Observe(duration.Seconds())

	return domain.EmbeddingResult{
		Embedding:    normalized,
		PromptTokens: resp.InputTextTokenCount,
		TotalTokens:  resp.InputTextTokenCount,
	}, nil
}

// normalize scales the vector to unit L2 norm.
func normalize(vec []float32) ([]float32, error) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, fmt.Errorf("embedding has zero norm")
	}

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}
