// Package notifier delivers waterbot's reminder messages.
//
// A notifier sends plain text to a single Telegram chat through the Bot API
// sendMessage method. Delivery is synchronous and resilient: connection
// errors, timeouts, unexpected statuses and declined responses are retried
// with exponential backoff, server rate limits are waited out via
// Retry-After, and credential problems (401/400) abort the send immediately.
//
// # Outcomes
//
// Callers get a bool: true when Telegram accepted the message on some
// attempt, false when the attempt budget ran out or the failure was fatal.
// Everything else (statuses, descriptions, waits) goes to the log.
package notifier
