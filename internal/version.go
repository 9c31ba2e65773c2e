// Package internal holds values shared across the commonseek packages.
package internal

// Version is the commonseek release version.
const Version = "0.1.0"
