// Package tasks implements the high-level catalog operations of the release
// hub: playlist analysis, bulk follow, release scanning, playlist building
// and related-artist discovery.
//
// The core abstraction is [Engine], which composes the API client's
// primitives per operation. Operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers; failures of individual
// items in multi-item operations are reported, not raised.
package tasks
