package services

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/magicletters/internal/client/client"
	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/client/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.DB()
}

func tempFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// fakeClient records calls and returns presets. Unset methods panic via the
// embedded nil interface.
type fakeClient struct {
	client.Client

	mu sync.Mutex

	Records  []models.RemoteLetter
	FetchErr error
	Phones   []string

	// started is closed on the first FetchAssigned; the call then blocks
	// until release is closed.
	started chan struct{}
	release chan struct{}

	UploadErr map[string]error
	Uploads   []models.Upload

	Calls []string
}

func (f *fakeClient) FetchAssigned(ctx context.Context, phone string) ([]models.RemoteLetter, error) {
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Phones = append(f.Phones, phone)
	f.Calls = append(f.Calls, "fetch")
	return f.Records, f.FetchErr
}

func (f *fakeClient) UploadLetter(ctx context.Context, up models.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Uploads = append(f.Uploads, up)
	f.Calls = append(f.Calls, "upload")
	return f.UploadErr[up.LocalID]
}
