// Package metadata records client bookkeeping timestamps, such as when the
// device last pulled its assignment and last pushed finished letters.
package metadata
