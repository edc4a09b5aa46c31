// Package sanitizer normalizes request input before validation.
//
// All functions are idempotent and never fail: input that cannot be
// normalized is returned trimmed so that the validator rejects it with a
// precise message.
//
// Normalization includes:
//   - Identifiers: trim surrounding whitespace
//   - Free text: collapse whitespace, drop control characters
//   - Clock times: zero-pad hours ("9:00" becomes "09:00")
//   - Dates: trim, keep ISO-8601 calendar form
package sanitizer
