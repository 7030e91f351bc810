// Package letters provides the client-side persistence layer for letters.
//
// # Overview
//
// Repository covers listing, reading and writing Letter rows in the
// local_letters table. Every read joins in the derived completion flags
// (HasMessage, PhotosCount, HasDrawing) from the photos and drawings tables,
// so callers never have to compute readiness themselves.
//
// # Ownership
//
// Letters pulled from the server carry the phone of the technician they were
// assigned to. Listing and clearing are always scoped by that owner phone, and
// (server_id, owner) identifies a pulled letter uniquely.
//
// Typical Usage
//
//	repo := letters.NewSQLiteRepository(db)
//	id, _ := repo.Create(ctx, "HN-1234", phone)
//	_ = repo.UpdateMessage(ctx, id, "Querido padrino...")
//	list, _ := repo.List(ctx, phone, letters.ListOptions{OnlyDrafts: true})
package letters
