// Package models defines the domain entities for the release hub.
//
// All entities are plain structured records with optional fields rather than
// a type hierarchy: [UnfollowedArtist] contains an [Artist] plus a frequency
// count instead of extending it. Cacheable records implement deep copies via
// Clone methods so cached values never alias caller-held memory.
package models
