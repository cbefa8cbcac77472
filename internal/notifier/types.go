package notifier

import "time"

const (
	defaultBaseURL    = "https://api.telegram.org/bot"
	defaultTimeout    = 10 * time.Second
	defaultRetryAfter = 5 * time.Second
	defaultMaxRetries = 3

	parseMode = "HTML"

	// Telegram allows roughly one message per second to a single chat.
	sendsPerSecond = 1

	testText = "🧪 Test message - Water Reminder Bot is active!"

	previewRunes = 50
)

// Config controls delivery to a single chat. A zero MaxRetries, Timeout or
// BaseURL falls back to the defaults above.
type Config struct {
	Token      string
	ChatID     string
	MaxRetries int
	Timeout    time.Duration
	BaseURL    string
}

// outcomeKind is the closed set of classified attempt results. Unauthorized
// (401) and bad request (400) end a send immediately; rate limited (429)
// waits out Retry-After without spending an attempt; declined is a 2xx
// envelope carrying ok:false; http errors and network failures are retried
// with backoff.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeDeclined
	outcomeRateLimited
	outcomeUnauthorized
	outcomeBadRequest
	outcomeHTTPError
	outcomeNetwork
)

// outcome is the classified result of one delivery attempt. retryAfter is
// set when rate limited, description when Telegram supplied one, err and
// timeout on transport failures.
type outcome struct {
	kind        outcomeKind
	status      int
	retryAfter  time.Duration
	description string
	err         error
	timeout     bool
}

// sendMessageRequest is the Bot API sendMessage payload.
type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the Bot API envelope, shared by success and failure replies.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}
