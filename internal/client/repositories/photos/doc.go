// Package photos stores the up to three photos attached to a letter.
//
// Each photo occupies a numbered slot (1..common.MaxPhotos). Add allocates the
// lowest free slot inside a transaction, so two adds for the same letter can
// never claim the same slot or exceed the limit.
package photos
