// Package drawings stores the single current drawing of a letter. Saving a
// drawing replaces whatever was there before.
package drawings
