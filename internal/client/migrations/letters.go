package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// letterColumns lists the columns of local_letters that older releases did
// not always create, with the definition used to add them.
var letterColumns = []struct {
	name string
	def  string
}{
	{"server_id", "TEXT"},
	{"slip_id", "TEXT"},
	{"child_name", "TEXT"},
	{"village", "TEXT"},
	{"contact_name", "TEXT"},
	{"due_date", "TEXT"},
	{"message_content", "TEXT NOT NULL DEFAULT ''"},
	{"return_reason", "TEXT"},
	{"local_user_phone", "TEXT"},
	{"updated_at", "TEXT NOT NULL DEFAULT ''"},
}

// addLetterColumns brings a local_letters table created by any earlier
// release up to the current column set and backfills what it can.
func addLetterColumns(ctx context.Context, tx *sql.Tx) error {
	cols, err := columnSet(ctx, tx, "local_letters")
	if err != nil {
		return err
	}

	for _, c := range letterColumns {
		if cols[c.name] {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE local_letters ADD COLUMN %s %s`, c.name, c.def)
		if err := execAll(ctx, tx, stmt); err != nil {
			return err
		}
	}

	backfill := []string{
		`UPDATE local_letters SET message_content = '' WHERE message_content IS NULL`,
		`UPDATE local_letters SET updated_at = COALESCE(NULLIF(created_at, ''), ` + nowExpr + `)
		  WHERE updated_at IS NULL OR updated_at = ''`,
	}
	if cols["text_feelings"] {
		backfill = append(backfill,
			`UPDATE local_letters SET message_content = text_feelings
			  WHERE trim(message_content) = '' AND text_feelings IS NOT NULL`)
	}
	backfill = append(backfill,
		`CREATE INDEX IF NOT EXISTS idx_local_letters_owner ON local_letters(local_user_phone)`)

	return execAll(ctx, tx, backfill...)
}

var statusValues = []string{"DRAFT", "ASSIGNED", "PENDING_SYNC", "SYNCED", "RETURNED"}

// statusExpr maps col to a known status, defaulting to DRAFT.
func statusExpr(col string) string {
	return fmt.Sprintf(`CASE WHEN %s IN ('%s') THEN %s ELSE 'DRAFT' END`,
		col, strings.Join(statusValues, "','"), col)
}

// foldLegacyLetters absorbs the mirrored "letters" table some releases kept
// in sync with triggers. Rows missing from local_letters are copied over, then
// the mirror and its triggers are dropped.
func foldLegacyLetters(ctx context.Context, tx *sql.Tx) error {
	if err := execAll(ctx, tx,
		`DROP TRIGGER IF EXISTS trg_local_letters_to_letters_ai`,
		`DROP TRIGGER IF EXISTS trg_local_letters_to_letters_au`,
	); err != nil {
		return err
	}

	ok, err := tableExists(ctx, tx, "letters")
	if err != nil || !ok {
		return err
	}
	cols, err := columnSet(ctx, tx, "letters")
	if err != nil {
		return err
	}

	if cols["local_id"] {
		status := "'DRAFT'"
		if cols["status"] {
			status = statusExpr("status")
		}
		created := pick(cols, nowExpr, "created_at")
		copyRows := fmt.Sprintf(`
INSERT OR IGNORE INTO local_letters (local_id, child_code, status, message_content, created_at, updated_at)
SELECT local_id, COALESCE(%s, ''), %s, COALESCE(%s, ''), COALESCE(%s, %s), COALESCE(%s, %s, %s)
  FROM letters
 WHERE local_id IS NOT NULL`,
			pick(cols, "NULL", "child_code"),
			status,
			pick(cols, "NULL", "text_feelings", "message_content"),
			created, nowExpr,
			pick(cols, "NULL", "updated_at"), created, nowExpr,
		)
		if err := execAll(ctx, tx, copyRows); err != nil {
			return err
		}
	}

	return execAll(ctx, tx, `DROP TABLE letters`)
}

// uniqueServerOwner collapses duplicate server letters per owner, keeping the
// copy with the most local progress, and enforces uniqueness from then on.
// Children of removed rows are orphaned here and cleaned by the integrity pass
// that follows every migration run.
func uniqueServerOwner(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DELETE FROM local_letters
		  WHERE server_id IS NOT NULL
		    AND rowid NOT IN (
		      SELECT rowid FROM (
		        SELECT rowid, ROW_NUMBER() OVER (
		                 PARTITION BY server_id, local_user_phone
		                 ORDER BY CASE status
		                            WHEN 'SYNCED' THEN 0
		                            WHEN 'PENDING_SYNC' THEN 1
		                            ELSE 2
		                          END,
		                          updated_at DESC,
		                          rowid DESC) AS rn
		          FROM local_letters
		         WHERE server_id IS NOT NULL)
		       WHERE rn = 1)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_local_letters_server_owner
		   ON local_letters(server_id, local_user_phone)
		   WHERE server_id IS NOT NULL`,
	)
}
