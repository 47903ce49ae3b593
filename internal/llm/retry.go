// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// backoffBase is the unit of exponential backoff between retries.
var backoffBase = 500 * time.Millisecond

// defaultMaxRetries bounds how many times GenerateWithRetry re-attempts a
// failing call before giving up.
const defaultMaxRetries = 3

// GenerateWithRetry calls gen.Generate with exponential backoff.
// maxRetries <= 0 uses defaultMaxRetries.
func GenerateWithRetry(ctx context.Context, gen Generator, prompt, provider, model string, maxRetries int) (Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := gen.Generate(ctx, prompt, provider, model)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return Response{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
