package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeLetter creates a letter and fills in everything MarkComplete needs.
func completeLetter(t *testing.T, svc LetterService, owner string) string {
	t.Helper()
	ctx := context.Background()

	id, err := svc.Create(ctx, "HN-1", owner)
	require.NoError(t, err)
	require.NoError(t, svc.SaveMessage(ctx, id, "Querido padrino, gracias."))
	_, err = svc.AddPhoto(ctx, id, tempFile(t, "p.jpg", "JPG"))
	require.NoError(t, err)
	require.NoError(t, svc.SaveDrawing(ctx, models.NewRasterDrawing(id, tempFile(t, "d.png", "PNG"))))
	return id
}

func TestMarkComplete_GateRequiresAllParts(t *testing.T) {
	svc := NewLetterService(setupDB(t))
	ctx := context.Background()

	id, err := svc.Create(ctx, "HN-1", "555")
	require.NoError(t, err)
	require.ErrorIs(t, svc.MarkComplete(ctx, id), common.ErrNotReady)

	require.NoError(t, svc.SaveMessage(ctx, id, "Hola padrino"))
	require.ErrorIs(t, svc.MarkComplete(ctx, id), common.ErrNotReady)

	_, err = svc.AddPhoto(ctx, id, tempFile(t, "p.jpg", "JPG"))
	require.NoError(t, err)
	require.ErrorIs(t, svc.MarkComplete(ctx, id), common.ErrNotReady)

	vec, err := models.NewVectorDrawing(id, []models.Stroke{{D: "M0 0 L5 5", Color: "#f00", Width: 2}})
	require.NoError(t, err)
	require.NoError(t, svc.SaveDrawing(ctx, vec))

	require.NoError(t, svc.MarkComplete(ctx, id))
	require.NoError(t, svc.MarkComplete(ctx, id), "already pending is a no-op")

	d, err := svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingSync, d.Letter.Status)
	assert.Len(t, d.Photos, 1)
	require.NotNil(t, d.Drawing)
	assert.Equal(t, models.DrawingVector, d.Drawing.Kind)
}

func TestMarkComplete_Refusals(t *testing.T) {
	db := setupDB(t)
	svc := NewLetterService(db)
	ctx := context.Background()

	require.ErrorIs(t, svc.MarkComplete(ctx, "missing"), common.ErrNotFound)

	id := completeLetter(t, svc, "555")
	_, err := db.Exec(`UPDATE local_letters SET status = 'SYNCED' WHERE local_id = ?`, id)
	require.NoError(t, err)
	require.ErrorIs(t, svc.MarkComplete(ctx, id), common.ErrInvalidStatus)
}

func TestMarkComplete_TrivialMessageDoesNotCount(t *testing.T) {
	svc := NewLetterService(setupDB(t))
	ctx := context.Background()

	id := completeLetter(t, svc, "555")
	require.NoError(t, svc.SaveMessage(ctx, id, "  ok   "))
	require.ErrorIs(t, svc.MarkComplete(ctx, id), common.ErrNotReady)
}

func TestLetterService_RejectsMissingFiles(t *testing.T) {
	svc := NewLetterService(setupDB(t))
	ctx := context.Background()

	id, err := svc.Create(ctx, "HN-1", "555")
	require.NoError(t, err)

	_, err = svc.AddPhoto(ctx, id, "/no/such/photo.jpg")
	require.ErrorIs(t, err, common.ErrValidation)
	require.ErrorIs(t, svc.SaveDrawing(ctx, models.NewRasterDrawing(id, "/no/such.png")), common.ErrValidation)
}

func TestLetterService_ListAndDetail(t *testing.T) {
	svc := NewLetterService(setupDB(t))
	ctx := context.Background()

	id := completeLetter(t, svc, "555")
	_, err := svc.Create(ctx, "HN-2", "777")
	require.NoError(t, err)

	list, err := svc.List(ctx, "555", true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].LocalID)
	assert.True(t, list[0].ReadyToSubmit())

	require.NoError(t, svc.DeletePhoto(ctx, id, 1))
	require.NoError(t, svc.ClearDrawing(ctx, id))
	d, err := svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, d.Photos)
	assert.Nil(t, d.Drawing)

	none, err := svc.Detail(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestLetterService_DerivedFieldsEndToEnd(t *testing.T) {
	svc := NewLetterService(setupDB(t))
	ctx := context.Background()

	id, err := svc.Create(ctx, "6TY77UU8", "9999-0000")
	require.NoError(t, err)
	_, err = svc.AddPhoto(ctx, id, tempFile(t, "p.jpg", "JPG"))
	require.NoError(t, err)
	require.NoError(t, svc.SaveDrawing(ctx, models.NewRasterDrawing(id, tempFile(t, "d.png", "PNG"))))
	require.NoError(t, svc.SaveMessage(ctx, id, "Hello"))

	d, err := svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.True(t, d.Letter.HasMessage)
	assert.Equal(t, 1, d.Letter.PhotosCount)
	assert.True(t, d.Letter.HasDrawing)
	assert.Equal(t, models.StatusDraft, d.Letter.Status)
}
