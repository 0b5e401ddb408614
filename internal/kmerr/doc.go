// Package kmerr provides structured, coded errors for the K-MATO client core.
//
// Each error carries a stable code (e.g., "KM1002") that maps to a registered
// template with a message, a longer detail, and an optional fix suggestion.
// Codes are grouped by subsystem:
//   - KM1xxx: authentication and session
//   - KM2xxx: local storage
//   - KM3xxx: live-patch feed
//   - KM4xxx: remote API
//   - KM5xxx: configuration
//
// Call sites that need to branch on a specific failure should use the
// exported sentinels (errors.Is works through the wrapped chain).
package kmerr
