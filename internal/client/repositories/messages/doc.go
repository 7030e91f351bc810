// Package messages reads and writes the body of a letter.
//
// The body lives in local_letters.message_content, one per letter by primary
// key; this package gives it the same Get/Upsert shape as the other child
// entities.
package messages
