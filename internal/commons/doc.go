// Package commons provides the Wikimedia Commons search client and the
// normalization of its raw API responses into bounded image records. It
// handles pagination bookkeeping, optional-field truncation and the
// derived aspect-ratio labels.
package commons
