package letters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var letterColumns = []string{
	"l.local_id",
	"COALESCE(l.server_id, '')",
	"COALESCE(l.slip_id, '')",
	"l.child_code",
	"COALESCE(l.child_name, '')",
	"COALESCE(l.village, '')",
	"COALESCE(l.contact_name, '')",
	"COALESCE(l.due_date, '')",
	"l.status",
	"COALESCE(l.message_content, '')",
	"COALESCE(l.return_reason, '')",
	"COALESCE(l.local_user_phone, '')",
	"l.created_at",
	"l.updated_at",
	fmt.Sprintf("length(trim(COALESCE(l.message_content, ''))) >= %d AS has_message", common.MessageMinLength),
	"(SELECT COUNT(*) FROM photos p WHERE p.letter_id = l.local_id) AS photos_count",
	"EXISTS (SELECT 1 FROM drawings d WHERE d.letter_id = l.local_id) AS has_drawing",
}

func selectLetters() sq.SelectBuilder {
	return sq.Select(letterColumns...).From("local_letters l")
}

func statusStrings(ss []models.Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func (r *SQLiteRepository) List(ctx context.Context, ownerPhone string, opts ListOptions) ([]models.Letter, error) {
	b := selectLetters().
		Where(sq.Eq{"l.local_user_phone": ownerPhone}).
		OrderBy(
			"CASE WHEN l.status IN ('RETURNED', 'PENDING_SYNC') THEN 0 ELSE 1 END",
			"CASE WHEN l.due_date IS NULL OR l.due_date = '' THEN 1 ELSE 0 END",
			"l.due_date ASC",
			"l.updated_at DESC",
		)
	if opts.OnlyDrafts {
		b = b.Where(sq.Eq{"l.status": statusStrings(models.ActionableStatuses)})
	}
	return r.query(ctx, b)
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]models.Letter, error) {
	b := selectLetters().
		Where(sq.Eq{"l.status": string(models.StatusPendingSync)}).
		OrderBy("l.updated_at ASC")
	return r.query(ctx, b)
}

func (r *SQLiteRepository) Get(ctx context.Context, localID string) (*models.Letter, error) {
	list, err := r.query(ctx, selectLetters().Where(sq.Eq{"l.local_id": localID}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *SQLiteRepository) query(ctx context.Context, b sq.SelectBuilder) ([]models.Letter, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build letters query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select letters: %w", err)
	}
	defer rows.Close()

	var result []models.Letter
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate letters: %w", err)
	}
	return result, nil
}

func scanLetter(rows *sql.Rows) (models.Letter, error) {
	var (
		l                  models.Letter
		status             string
		created, updated   string
		hasMsg, hasDrawing bool
	)
	err := rows.Scan(&l.LocalID, &l.ServerID, &l.SlipID, &l.ChildCode, &l.ChildName, &l.Village,
		&l.ContactName, &l.DueDate, &status, &l.Message, &l.ReturnReason, &l.OwnerPhone,
		&created, &updated, &hasMsg, &l.PhotosCount, &hasDrawing)
	if err != nil {
		return l, fmt.Errorf("failed to scan letter: %w", err)
	}
	l.Status = models.Status(status)
	l.HasMessage = hasMsg
	l.HasDrawing = hasDrawing
	if l.CreatedAt, err = common.ParseTime(created); err != nil {
		return l, err
	}
	if l.UpdatedAt, err = common.ParseTime(updated); err != nil {
		return l, err
	}
	return l, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, childCode, ownerPhone string) (string, error) {
	code := strings.TrimSpace(childCode)
	if code == "" {
		return "", fmt.Errorf("%w: child code is required", common.ErrValidation)
	}

	id := common.NewLocalID()
	now := common.FormatTime(common.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO local_letters (local_id, child_code, status, message_content, local_user_phone, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?, ?)`,
		id, code, string(models.StatusDraft), nullIfEmpty(ownerPhone), now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert letter: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) UpdateMessage(ctx context.Context, localID, text string) error {
	return r.update(ctx, localID, "message_content = ?", text)
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, localID string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidStatus, status)
	}
	return r.update(ctx, localID, "status = ?", string(status))
}

// update sets one column and bumps updated_at in the same statement.
func (r *SQLiteRepository) update(ctx context.Context, localID, set string, arg any) error {
	query := `UPDATE local_letters SET ` + set + `, updated_at = ? WHERE local_id = ?`
	res, err := r.db.ExecContext(ctx, query, arg, common.FormatTime(common.Now()), localID)
	if err != nil {
		return fmt.Errorf("failed to update letter %s: %w", localID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("letter %s: %w", localID, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) SaveSynced(ctx context.Context, rec models.RemoteLetter, ownerPhone string) (string, error) {
	serverID := strings.TrimSpace(string(rec.ID))
	if serverID == "" {
		return "", fmt.Errorf("%w: remote letter without id", common.ErrValidation)
	}
	if strings.TrimSpace(ownerPhone) == "" {
		return "", fmt.Errorf("%w: owner phone is required", common.ErrValidation)
	}
	status, err := models.ParseStatus(rec.Status)
	if err != nil {
		return "", err
	}

	var localID string
	err = dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		now := common.FormatTime(common.Now())
		err := tx.QueryRowContext(ctx,
			`SELECT local_id FROM local_letters WHERE server_id = ? AND local_user_phone = ?`,
			serverID, ownerPhone).Scan(&localID)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			localID = common.NewLocalID()
			_, err = tx.ExecContext(ctx, `
				INSERT INTO local_letters (local_id, server_id, slip_id, child_code, child_name, village,
				  contact_name, due_date, status, message_content, return_reason, local_user_phone,
				  created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?, ?, ?)`,
				localID, serverID, string(rec.SlipID), rec.Code(), rec.ChildName, rec.Village,
				rec.ContactName, rec.DueDate, string(status), nullIfEmpty(rec.ReturnReason), ownerPhone,
				now, now)
			if err != nil {
				return fmt.Errorf("failed to insert synced letter %s: %w", serverID, err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to look up synced letter %s: %w", serverID, err)
		}

		// A stale assignment does not reset a letter that was already completed.
		_, err = tx.ExecContext(ctx, `
			UPDATE local_letters
			   SET slip_id = ?, child_name = ?, village = ?, contact_name = ?, due_date = ?,
			       status = CASE WHEN status IN ('PENDING_SYNC', 'SYNCED') AND ? = 'ASSIGNED' THEN status ELSE ? END,
			       return_reason = ?, updated_at = ?
			 WHERE local_id = ?`,
			string(rec.SlipID), rec.ChildName, rec.Village, rec.ContactName, rec.DueDate,
			string(status), string(status), nullIfEmpty(rec.ReturnReason), now, localID)
		if err != nil {
			return fmt.Errorf("failed to update synced letter %s: %w", serverID, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return localID, nil
}

func (r *SQLiteRepository) ClearLocal(ctx context.Context, ownerPhone string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM local_letters WHERE local_user_phone = ? AND status IN (?, ?)`,
		ownerPhone, string(models.StatusAssigned), string(models.StatusReturned))
	if err != nil {
		return 0, fmt.Errorf("failed to clear local letters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
