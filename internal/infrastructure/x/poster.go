package x

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"NewsPoster/internal/domain"
	"NewsPoster/internal/ports"
)

const (
	createPostURL        = "https://api.twitter.com/2/tweets"
	rateLimitResetHeader = "x-rate-limit-reset"

	// SimulatedPostID is returned for every post in simulation mode.
	SimulatedPostID = "simulated_post_id"
)

// Poster publishes texts to the X API, one at a time, with retry and
// rate-limit backoff. Without complete credentials it runs in simulation
// mode: every post succeeds immediately and nothing leaves the process.
type Poster struct {
	client     *http.Client
	endpoint   string
	maxLength  int
	maxRetries int
	policy     Policy
	sleep      func(time.Duration)
	logger     *slog.Logger
}

var _ ports.Publisher = (*Poster)(nil)

// NewPoster builds the publisher. Credentials are only used to construct the
// OAuth1-signing HTTP client; incomplete credentials select simulation mode.
func NewPoster(creds Credentials, maxLength, maxRetries int, policy Policy, logger *slog.Logger) *Poster {
	p := &Poster{
		endpoint:   createPostURL,
		maxLength:  maxLength,
		maxRetries: maxRetries,
		policy:     policy,
		sleep:      time.Sleep,
		logger:     logger,
	}

	if creds.Complete() {
		cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
		token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
		p.client = cfg.Client(oauth1.NoContext, token)
		p.client.Timeout = 15 * time.Second
	} else {
		logger.Warn("X API credentials not fully provided, posting will be simulated")
	}

	return p
}

// Post submits one text. Rate-limit responses wait out the server reset time
// and resubmit without consuming a retry slot; any other failure retries up
// to maxRetries attempts with the policy delay in between.
func (p *Poster) Post(ctx context.Context, text string) domain.PublishOutcome {
	if p.client == nil {
		p.logger.Info("simulation: would post", "text", text)
		return domain.PublishOutcome{Text: text, Posted: true, PostID: SimulatedPostID}
	}

	// Last-resort safety net; the fitter should already have bounded this.
	if len(text) > p.maxLength {
		p.logger.Warn("post exceeds max length, truncating", "length", len(text), "max", p.maxLength)
		text = text[:p.maxLength-3] + "..."
	}

	var lastErr string
	attempt := 0
	for attempt < p.maxRetries {
		result, err := p.submit(ctx, text)
		if err != nil {
			lastErr = fmt.Sprintf("exception posting: %v", err)
			p.logger.Error("publish attempt failed", "attempt", attempt+1, "error", err)
		} else {
			switch result.status {
			case http.StatusCreated:
				p.logger.Info("posted successfully", "post_id", result.postID)
				return domain.PublishOutcome{Text: text, Posted: true, PostID: result.postID}
			case http.StatusTooManyRequests:
				wait := p.policy.NextDelay(attempt, Signal{RateLimited: true, ResetAt: result.resetAt})
				p.logger.Warn("rate limited", "wait", wait)
				p.sleep(wait)
				continue
			default:
				lastErr = fmt.Sprintf("error posting: %d - %s", result.status, result.body)
				p.logger.Error("publish rejected", "attempt", attempt+1, "status", result.status)
			}
		}

		attempt++
		if attempt < p.maxRetries {
			delay := p.policy.NextDelay(attempt, Signal{})
			p.logger.Info("retrying publish", "in", delay)
			p.sleep(delay)
		}
	}

	if lastErr == "" {
		lastErr = "maximum retries exceeded"
	}
	return domain.PublishOutcome{Text: text, Posted: false, Err: lastErr}
}

// BatchPost publishes texts strictly in input order, pausing interPostDelay
// after every post except the last regardless of its outcome.
func (p *Poster) BatchPost(ctx context.Context, texts []string, interPostDelay time.Duration) []domain.PublishOutcome {
	outcomes := make([]domain.PublishOutcome, 0, len(texts))
	for i, text := range texts {
		p.logger.Info("posting", "n", i+1, "of", len(texts))
		outcomes = append(outcomes, p.Post(ctx, text))

		if i < len(texts)-1 {
			p.sleep(interPostDelay)
		}
	}
	return outcomes
}

type postResult struct {
	status  int
	postID  string
	body    string
	resetAt time.Time
}

func (p *Poster) submit(ctx context.Context, text string) (postResult, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return postResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return postResult{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return postResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	result := postResult{status: resp.StatusCode, body: strings.TrimSpace(string(body))}

	if resp.StatusCode == http.StatusCreated {
		var created struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := json.Unmarshal(body, &created); err != nil {
			return postResult{}, fmt.Errorf("decode create response: %w", err)
		}
		result.postID = created.Data.ID
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if raw := resp.Header.Get(rateLimitResetHeader); raw != "" {
			if epoch, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
				result.resetAt = time.Unix(epoch, 0)
			}
		}
	}

	return result, nil
}
