// Package sanitizer normalizes user supplied values before validation and
// storage.
//
// All functions are idempotent. Values that cannot be normalized are
// returned trimmed but otherwise untouched so that validation can reject
// them with a precise message.
package sanitizer
