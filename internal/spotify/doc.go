// Package spotify implements the remote-access core for the Spotify Web API.
//
// It turns high-level intents into correctly sequenced, rate-limited,
// retried and cached REST calls. The pieces compose per call as:
//
//	operation → pagination / batching → executor → rate gate → token header → network
//
// [RateGate] enforces a ceiling of admissions per rolling window.
// [Executor] wraps a single call with adaptive delay, retry-after-aware
// 429 handling and exponential backoff for transient failures.
// [TokenManager] owns the credential and performs single-flight refresh
// when concurrent calls observe a 401.
// [Client] exposes the endpoint operations and the cache layer.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify
