// Package ir provides the constrained value model used by aggregate
// documents and the canonical serialization used for report fingerprints.
//
// This package contains value types and pure functions only. It imports
// nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - NO null in canonical output
//   - Object keys are ordered by UTF-16 code units (RFC 8785)
//   - Strings are NFC normalized at the serialization boundary
package ir
