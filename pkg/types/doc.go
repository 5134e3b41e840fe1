// Package types defines the public data types and the typed error model of
// fdtkit. Errors carry a stable ErrKind so callers can branch on category
// (not found vs. corrupt vs. unsupported) without matching message text.
package types
