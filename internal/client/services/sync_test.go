package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/magicletters/internal/client/client"
	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/letters"
	"github.com/dmitrijs2005/magicletters/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "555"

func assign(t *testing.T, db *sql.DB, serverID, phone string) string {
	t.Helper()
	id, err := letters.NewSQLiteRepository(db).SaveSynced(context.Background(),
		models.RemoteLetter{ID: models.RemoteID(serverID), ChildNbr: models.RemoteID("HN-" + serverID)}, phone)
	require.NoError(t, err)
	return id
}

func pendingLetter(t *testing.T, db *sql.DB) string {
	t.Helper()
	svc := NewLetterService(db)
	id := completeLetter(t, svc, owner)
	vec, err := models.NewVectorDrawing(id, []models.Stroke{{D: "M0 0 L9 9", Color: "#00f", Width: 3}})
	require.NoError(t, err)
	require.NoError(t, svc.SaveDrawing(context.Background(), vec))
	require.NoError(t, svc.MarkComplete(context.Background(), id))
	return id
}

func status(t *testing.T, db *sql.DB, localID string) models.Status {
	t.Helper()
	l, err := letters.NewSQLiteRepository(db).Get(context.Background(), localID)
	require.NoError(t, err)
	if l == nil {
		return ""
	}
	return l.Status
}

func TestPull_ReplacesUnworkedLetters(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	stale := assign(t, db, "1", owner)
	pending := pendingLetter(t, db)
	foreign := assign(t, db, "1", "777")

	fc := &fakeClient{Records: []models.RemoteLetter{
		{ID: "2", ChildNbr: "HN-2", DueDate: "2026-12-01"},
		{ID: "3", ChildCode: "HN-3", Status: "returned", ReturnReason: "foto borrosa"},
		{ChildCode: "no id"},
	}}
	svc := NewSyncService(fc, db, logging.Nop())

	n, err := svc.Pull(ctx, " "+owner+" ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{owner}, fc.Phones)

	assert.Empty(t, status(t, db, stale), "stale assignment must be cleared")
	assert.Equal(t, models.StatusPendingSync, status(t, db, pending))
	assert.Equal(t, models.StatusAssigned, status(t, db, foreign), "other owners are untouched")

	list, err := letters.NewSQLiteRepository(db).List(ctx, owner, letters.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, models.StatusAssigned, list[2].Status, "letters needing attention sort first")
	for _, l := range list {
		if l.ServerID == "3" {
			assert.Equal(t, models.StatusReturned, l.Status)
			assert.Equal(t, "foto borrosa", l.ReturnReason)
		}
	}

	at, err := metadata.NewSQLiteRepository(db).GetTime(ctx, metadata.KeyLastPullAt)
	require.NoError(t, err)
	assert.False(t, at.IsZero())
}

func TestPull_RepeatedIdenticalPayloadKeepsOneRow(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	const phone = "9999-0000"

	fc := &fakeClient{Records: []models.RemoteLetter{{ID: "42", ChildName: "Ana", Status: "ASSIGNED"}}}
	svc := NewSyncService(fc, db, logging.Nop())

	for range 2 {
		n, err := svc.Pull(ctx, phone)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}

	list, err := letters.NewSQLiteRepository(db).List(ctx, phone, letters.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "42", list[0].ServerID)
	assert.Equal(t, models.StatusAssigned, list[0].Status)
	assert.Equal(t, "Ana", list[0].ChildName)
}

func TestPull_FailureLeavesStoreUnchanged(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	stale := assign(t, db, "1", owner)
	fc := &fakeClient{FetchErr: client.ErrUnavailable}
	svc := NewSyncService(fc, db, logging.Nop())

	_, err := svc.Pull(ctx, owner)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, models.StatusAssigned, status(t, db, stale))

	at, err := metadata.NewSQLiteRepository(db).GetTime(ctx, metadata.KeyLastPullAt)
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}

func TestPush_IsolatesFailures(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	bad := pendingLetter(t, db)
	good := pendingLetter(t, db)
	draft, err := NewLetterService(db).Create(ctx, "HN-9", owner)
	require.NoError(t, err)

	fc := &fakeClient{UploadErr: map[string]error{bad: client.ErrUploadRejected}}
	svc := NewSyncService(fc, db, logging.Nop())

	rep, err := svc.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Attempted)
	assert.Equal(t, 1, rep.Synced)
	require.Len(t, rep.Failures, 1)
	assert.ErrorIs(t, rep.Failures[bad], client.ErrUploadRejected)

	assert.Equal(t, models.StatusPendingSync, status(t, db, bad))
	assert.Equal(t, models.StatusSynced, status(t, db, good))
	assert.Equal(t, models.StatusDraft, status(t, db, draft))

	require.Len(t, fc.Uploads, 2)
	var up models.Upload
	for _, u := range fc.Uploads {
		if u.LocalID == good {
			up = u
		}
	}
	assert.Equal(t, owner, up.OwnerPhone)
	assert.Equal(t, "Querido padrino, gracias.", up.Message)
	require.NotNil(t, up.Drawing)
	assert.Equal(t, "image/svg+xml", up.Drawing.ContentType)
	assert.Equal(t, "drawing.svg", up.Drawing.Name)
	assert.True(t, strings.HasPrefix(string(up.Drawing.Data), "<svg"))
	require.Len(t, up.Photos, 1)
	assert.Equal(t, "photo_0", up.Photos[0].Field)
	assert.Equal(t, "image/jpeg", up.Photos[0].ContentType)

	at, err := metadata.NewSQLiteRepository(db).GetTime(ctx, metadata.KeyLastPushAt)
	require.NoError(t, err)
	assert.False(t, at.IsZero())

	// Retrying only resends what is still pending.
	fc.UploadErr = nil
	rep, err = svc.Push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Attempted)
	assert.Equal(t, 1, rep.Synced)
	assert.Equal(t, models.StatusSynced, status(t, db, bad))
}

func TestPush_RasterDrawingIsSentAsFile(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	svc := NewLetterService(db)
	id := completeLetter(t, svc, owner)
	require.NoError(t, svc.MarkComplete(ctx, id))

	fc := &fakeClient{}
	_, err := NewSyncService(fc, db, logging.Nop()).Push(ctx)
	require.NoError(t, err)

	require.Len(t, fc.Uploads, 1)
	d := fc.Uploads[0].Drawing
	require.NotNil(t, d)
	assert.Equal(t, "image/png", d.ContentType)
	assert.True(t, strings.HasSuffix(d.Path, "d.png"))
	assert.Nil(t, d.Data)
}

func TestSync_PushesBeforePulling(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	pending := pendingLetter(t, db)
	fc := &fakeClient{Records: []models.RemoteLetter{{ID: "5", ChildNbr: "HN-5"}}}
	svc := NewSyncService(fc, db, logging.Nop())

	res, err := svc.Sync(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"upload", "fetch"}, fc.Calls)
	assert.Equal(t, 1, res.Push.Synced)
	assert.Equal(t, 1, res.Pulled)
	assert.Equal(t, models.StatusSynced, status(t, db, pending))
}

func TestSync_RequiresIdentity(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{}
	svc := NewSyncService(fc, db, logging.Nop())

	_, err := svc.Sync(context.Background(), "  ")
	require.ErrorIs(t, err, common.ErrNoIdentity)
	_, err = svc.Pull(context.Background(), "")
	require.ErrorIs(t, err, common.ErrNoIdentity)
	assert.Empty(t, fc.Calls)
}

func TestSync_RejectsConcurrentRuns(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	fc := &fakeClient{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewSyncService(fc, db, logging.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Pull(ctx, owner)
		done <- err
	}()
	<-fc.started

	_, err := svc.Push(ctx)
	assert.True(t, errors.Is(err, common.ErrSyncInProgress))
	_, err = svc.Sync(ctx, owner)
	assert.ErrorIs(t, err, common.ErrSyncInProgress)

	close(fc.release)
	require.NoError(t, <-done)

	_, err = svc.Push(ctx)
	require.NoError(t, err)
}

func TestLastSync_TracksSuccessfulHalves(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	fc := &fakeClient{Records: []models.RemoteLetter{{ID: "5", ChildNbr: "HN-5"}}}
	svc := NewSyncService(fc, db, logging.Nop())

	st, err := svc.LastSync(ctx)
	require.NoError(t, err)
	assert.True(t, st.Pull.IsZero())
	assert.True(t, st.Push.IsZero())

	_, err = svc.Pull(ctx, owner)
	require.NoError(t, err)
	st, err = svc.LastSync(ctx)
	require.NoError(t, err)
	assert.False(t, st.Pull.IsZero())
	assert.True(t, st.Push.IsZero(), "an empty push is not recorded")

	pendingLetter(t, db)
	_, err = svc.Push(ctx)
	require.NoError(t, err)
	st, err = svc.LastSync(ctx)
	require.NoError(t, err)
	assert.False(t, st.Push.IsZero())
}
