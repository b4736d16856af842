// Package httputil provides HTTP helpers for clients of the gcad server.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped in [RetryableError] are retried. [CheckResponse] does
// the wrapping for status codes:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    if err := httputil.CheckResponse(resp); err != nil {
//	        return err
//	    }
//	    return httputil.DecodeJSON(resp, &out)
//	})
//
// # Configuration
//
// A [Backoff] sets the number of attempts and an initial delay that doubles
// after every failure, capped at Max. A Retry-After header on a 429 or 5xx
// response lengthens the next wait. [RetryWithBackoff] uses [DefaultBackoff].
package httputil
