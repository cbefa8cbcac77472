package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"waterbot/pkg/logx"
)

// Service delivers messages to a single Telegram chat over the Bot API.
//
// Sends are synchronous: transient failures are retried with exponential
// backoff and the final result is reported as a bool. Nothing is queued.
type Service struct {
	cfg    Config
	apiURL string

	log     logx.Logger
	http    *http.Client
	limiter *rate.Limiter

	sleep func(time.Duration)
}

func New(cfg Config, log logx.Logger) *Service {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Service{
		cfg:     cfg,
		apiURL:  cfg.BaseURL + strings.TrimSpace(cfg.Token) + "/sendMessage",
		log:     log,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), sendsPerSecond),
		sleep:   time.Sleep,
	}
}

// Send delivers one message and reports whether Telegram accepted it on some
// attempt. Credential failures (401/400) end the send immediately; a rate
// limit waits out the server's Retry-After without spending an attempt.
func (s *Service) Send(ctx context.Context, text string) bool {
	log := s.log.With(logx.String("delivery", uuid.NewString()))

	// Pace sends to one per second. A wait aborted by ctx just makes the
	// attempts below fail fast.
	_ = s.limiter.Wait(ctx)

	for attempt := 0; attempt < s.cfg.MaxRetries; {
		out := s.attempt(ctx, text)

		switch out.kind {
		case outcomeSuccess:
			log.Info("message sent",
				logx.String("preview", preview(text)),
				logx.Int("attempt", attempt+1))
			return true

		case outcomeRateLimited:
			log.Warn("rate limited",
				logx.Duration("retry_after", out.retryAfter),
				logx.Int("attempt", attempt+1))
			s.sleep(out.retryAfter)
			continue

		case outcomeUnauthorized:
			log.Error("unauthorized, check bot token",
				logx.Int("status", out.status),
				logx.String("description", out.description))
			return false

		case outcomeBadRequest:
			log.Error("bad request, check chat id and message",
				logx.Int("status", out.status),
				logx.String("description", out.description))
			return false

		case outcomeDeclined:
			log.Error("telegram declined message",
				logx.String("description", out.description),
				logx.Int("attempt", attempt+1),
				logx.Int("max", s.cfg.MaxRetries))

		case outcomeHTTPError:
			log.Error("unexpected http status",
				logx.Int("status", out.status),
				logx.Int("attempt", attempt+1),
				logx.Int("max", s.cfg.MaxRetries))

		case outcomeNetwork:
			if out.timeout {
				log.Warn("request timed out",
					logx.Int("attempt", attempt+1),
					logx.Int("max", s.cfg.MaxRetries))
			} else {
				log.Warn("connection failed",
					logx.Err(out.err),
					logx.Int("attempt", attempt+1),
					logx.Int("max", s.cfg.MaxRetries))
			}
		}

		attempt++
		if attempt >= s.cfg.MaxRetries {
			break
		}
		delay := retryDelay(attempt - 1)
		log.Info("retrying", logx.Duration("in", delay))
		s.sleep(delay)
	}

	log.Error("giving up",
		logx.Int("attempts", s.cfg.MaxRetries),
		logx.String("preview", preview(text)))
	return false
}

// TestConnection sends the canary message through the normal delivery path.
func (s *Service) TestConnection(ctx context.Context) bool {
	s.log.Info("sending test message")
	return s.Send(ctx, testText)
}

func (s *Service) attempt(ctx context.Context, text string) outcome {
	payload, err := json.Marshal(sendMessageRequest{ChatID: s.cfg.ChatID, Text: text, ParseMode: parseMode})
	if err != nil {
		return outcome{kind: outcomeNetwork, err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return outcome{kind: outcomeNetwork, err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	return classify(resp, err)
}

// classify maps one HTTP exchange onto the closed outcome set. It owns and
// closes the response body.
func classify(resp *http.Response, err error) outcome {
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return outcome{kind: outcomeNetwork, err: err, timeout: true}
		}
		return outcome{kind: outcomeNetwork, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return outcome{
			kind:       outcomeRateLimited,
			status:     resp.StatusCode,
			retryAfter: retryAfterDelay(resp.Header.Get("Retry-After")),
		}
	}

	// Telegram uses one envelope for success and failure; decode is best-effort.
	var body apiResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	desc := body.Description
	if desc == "" {
		desc = "unknown error"
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return outcome{kind: outcomeUnauthorized, status: resp.StatusCode, description: desc}
	case resp.StatusCode == http.StatusBadRequest:
		return outcome{kind: outcomeBadRequest, status: resp.StatusCode, description: desc}
	case resp.StatusCode/100 != 2:
		return outcome{kind: outcomeHTTPError, status: resp.StatusCode, description: desc}
	case !body.OK:
		return outcome{kind: outcomeDeclined, status: resp.StatusCode, description: desc}
	}
	return outcome{kind: outcomeSuccess, status: resp.StatusCode}
}

// retryAfterDelay parses a Retry-After header given in seconds.
func retryAfterDelay(h string) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return defaultRetryAfter
}

// retryDelay is the backoff after 0-indexed failed attempt k: 1s, 2s, 4s, ...
func retryDelay(k int) time.Duration {
	return time.Duration(1<<k) * time.Second
}

// preview shortens message text for log lines.
func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "..."
}
