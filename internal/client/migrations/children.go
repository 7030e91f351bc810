package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

const createPhotos = `
CREATE TABLE photos (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  letter_id TEXT NOT NULL,
  slot INTEGER NOT NULL,
  photo_uri TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  CONSTRAINT ck_photos_slot CHECK (slot IN (1, 2, 3)),
  FOREIGN KEY (letter_id) REFERENCES local_letters(local_id) ON DELETE CASCADE
)`

// rebuildPhotos recreates photos in the slot-based shape. Legacy rows keep
// their slot when they had one; otherwise the first three photos of each
// letter are numbered by insertion order. Rows whose letter no longer exists
// are not carried over.
func rebuildPhotos(ctx context.Context, tx *sql.Tx) error {
	ok, err := tableExists(ctx, tx, "photos")
	if err != nil {
		return err
	}
	if !ok {
		return execAll(ctx, tx, createPhotos, photoIndex)
	}

	cols, err := columnSet(ctx, tx, "photos")
	if err != nil {
		return err
	}
	if err := execAll(ctx, tx,
		`DROP INDEX IF EXISTS ux_photos_letter_slot`,
		`DROP INDEX IF EXISTS idx_photos_letter_id`,
		`ALTER TABLE photos RENAME TO photos_old`,
		createPhotos,
	); err != nil {
		return err
	}

	letter := pick(cols, "", "letter_id", "local_letter_id")
	uri := pick(cols, "", "photo_uri", "uri", "file_path", "path")
	if letter != "" && uri != "" {
		created := pick(cols, nowExpr, "created_at")
		updated := fmt.Sprintf("COALESCE(%s, %s, %s)", pick(cols, "NULL", "updated_at"), created, nowExpr)
		var copyRows string
		if cols["slot"] {
			copyRows = fmt.Sprintf(`
INSERT OR IGNORE INTO photos (letter_id, slot, photo_uri, created_at, updated_at)
SELECT %[1]s, slot, %[2]s, COALESCE(%[3]s, %[5]s), %[4]s
  FROM photos_old
 WHERE slot IN (1, 2, 3)
   AND %[2]s IS NOT NULL
   AND %[1]s IN (SELECT local_id FROM local_letters)
 ORDER BY rowid DESC`, letter, uri, created, updated, nowExpr)
		} else {
			copyRows = fmt.Sprintf(`
INSERT INTO photos (letter_id, slot, photo_uri, created_at, updated_at)
SELECT letter_id, rn, uri, created_at, updated_at FROM (
  SELECT %[1]s AS letter_id, %[2]s AS uri,
         COALESCE(%[3]s, %[5]s) AS created_at, %[4]s AS updated_at,
         ROW_NUMBER() OVER (PARTITION BY %[1]s ORDER BY rowid) AS rn
    FROM photos_old
   WHERE %[2]s IS NOT NULL
     AND %[1]s IN (SELECT local_id FROM local_letters))
 WHERE rn <= 3`, letter, uri, created, updated, nowExpr)
		}
		if err := execAll(ctx, tx, copyRows); err != nil {
			return err
		}
	}

	return execAll(ctx, tx, `DROP TABLE photos_old`, photoIndex)
}

const photoIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_photos_letter_slot ON photos(letter_id, slot)`

const createDrawings = `
CREATE TABLE drawings (
  letter_id TEXT PRIMARY KEY,
  kind TEXT NOT NULL CHECK (kind IN ('vector', 'raster')),
  content TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  FOREIGN KEY (letter_id) REFERENCES local_letters(local_id) ON DELETE CASCADE
)`

// rebuildDrawings merges the two historical drawing layouts into a single
// table holding at most one drawing per letter: "drawings" stored SVG markup,
// "local_drawings" stored a path to a rendered image. The image layout is the
// newer one and wins when a letter has both.
func rebuildDrawings(ctx context.Context, tx *sql.Tx) error {
	hadVector, err := tableExists(ctx, tx, "drawings")
	if err != nil {
		return err
	}
	hadRaster, err := tableExists(ctx, tx, "local_drawings")
	if err != nil {
		return err
	}

	var vectorCols map[string]bool
	if hadVector {
		if vectorCols, err = columnSet(ctx, tx, "drawings"); err != nil {
			return err
		}
		if err := execAll(ctx, tx, `ALTER TABLE drawings RENAME TO drawings_old`); err != nil {
			return err
		}
	}
	if err := execAll(ctx, tx, createDrawings); err != nil {
		return err
	}

	if hadRaster {
		cols, err := columnSet(ctx, tx, "local_drawings")
		if err != nil {
			return err
		}
		letter := pick(cols, "", "local_letter_id", "letter_id")
		path := pick(cols, "", "file_path", "uri", "path")
		if letter != "" && path != "" {
			if err := execAll(ctx, tx, copyDrawing("local_drawings", "raster", letter, path, cols)); err != nil {
				return err
			}
		}
		if err := execAll(ctx, tx, `DROP TABLE local_drawings`); err != nil {
			return err
		}
	}

	if hadVector {
		letter := pick(vectorCols, "", "letter_id", "local_letter_id")
		if letter != "" {
			var stmts []string
			if vectorCols["svg_xml"] {
				stmts = append(stmts, copyDrawing("drawings_old", "vector", letter, "svg_xml", vectorCols))
			}
			if p := pick(vectorCols, "", "file_path", "uri"); p != "" {
				stmts = append(stmts, copyDrawing("drawings_old", "raster", letter, p, vectorCols))
			}
			if err := execAll(ctx, tx, stmts...); err != nil {
				return err
			}
		}
		if err := execAll(ctx, tx, `DROP TABLE drawings_old`); err != nil {
			return err
		}
	}
	return nil
}

// copyDrawing builds the statement copying the newest non-empty drawing per
// letter out of a legacy table. Letters that already have a drawing are left
// alone.
func copyDrawing(table, kind, letter, content string, cols map[string]bool) string {
	created := pick(cols, nowExpr, "created_at")
	updated := fmt.Sprintf("COALESCE(%s, %s, %s)", pick(cols, "NULL", "updated_at"), created, nowExpr)
	return fmt.Sprintf(`
INSERT OR IGNORE INTO drawings (letter_id, kind, content, created_at, updated_at)
SELECT %[2]s, '%[1]s', %[3]s, COALESCE(%[4]s, %[6]s), %[5]s
  FROM %[7]s
 WHERE %[3]s IS NOT NULL AND trim(%[3]s) <> ''
   AND %[2]s IN (SELECT local_id FROM local_letters)
 ORDER BY rowid DESC`, kind, letter, content, created, updated, nowExpr, table)
}

// foldLegacyMessages moves text from the old per-letter messages table into
// local_letters.message_content where the letter has no text of its own, then
// drops the table.
func foldLegacyMessages(ctx context.Context, tx *sql.Tx) error {
	ok, err := tableExists(ctx, tx, "messages")
	if err != nil || !ok {
		return err
	}
	cols, err := columnSet(ctx, tx, "messages")
	if err != nil {
		return err
	}

	letter := pick(cols, "", "letter_id", "local_letter_id")
	text := pick(cols, "", "text", "content", "body")
	if letter != "" && text != "" {
		fold := fmt.Sprintf(`
UPDATE local_letters
   SET message_content = (
         SELECT m.%[2]s FROM messages m
          WHERE m.%[1]s = local_letters.local_id
            AND m.%[2]s IS NOT NULL AND trim(m.%[2]s) <> ''
          ORDER BY m.rowid DESC LIMIT 1)
 WHERE trim(COALESCE(message_content, '')) = ''
   AND EXISTS (
         SELECT 1 FROM messages m
          WHERE m.%[1]s = local_letters.local_id
            AND m.%[2]s IS NOT NULL AND trim(m.%[2]s) <> '')`, letter, text)
		if err := execAll(ctx, tx, fold); err != nil {
			return err
		}
	}
	return execAll(ctx, tx, `DROP TABLE messages`)
}
