// ABOUTME: Backoff calculation for retried external calls
// ABOUTME: Shared by the provider clients for consistent retry behavior
package util

import "time"

// maxBackoff caps the delay regardless of attempt count.
const maxBackoff = 30 * time.Second

// Backoff returns the delay before retry number attempt (1-based): the base
// delay doubled for each subsequent attempt, so a 1s base yields 1s, 2s, 4s.
// Attempt 0 (the first try) waits nothing.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap the shift to avoid overflow on absurd attempt counts.
	if attempt > 30 {
		attempt = 30
	}
	backoff := base << uint(attempt-1)
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	return backoff
}
