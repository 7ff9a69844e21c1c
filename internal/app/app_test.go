package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogdesk/blogdesk-go/internal/crypto"
	"github.com/blogdesk/blogdesk-go/internal/model"
	"github.com/blogdesk/blogdesk-go/internal/repository"
	"github.com/blogdesk/blogdesk-go/internal/session"
)

func setTestEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blogdesk.db")
	t.Setenv("API_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("STORE_PATH", path)
	t.Setenv("SESSION_KEY", "")
	t.Setenv("ENV", "development")
	t.Setenv("CSRF_SECRET", "")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func seedSession(t *testing.T, path string, ident model.Identity, token string) {
	t.Helper()
	db, err := repository.NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(repository.NewKVRepository(db), crypto.NewSealer(""), logger, nil)
	require.NoError(t, store.Login(context.Background(), ident, token))
}

func TestLogSessionChanges(t *testing.T) {
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "blogdesk.db"))
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	store := session.NewStore(repository.NewKVRepository(db), nil, log, nil)
	ctx := context.Background()

	unsubscribe := logSessionChanges(store, log)
	require.NoError(t, store.Login(ctx, model.Identity{ID: "u1", Name: "Alice"}, "T"))
	assert.Contains(t, buf.String(), `msg="session active" user_id=u1`)

	require.NoError(t, store.Logout(ctx))
	assert.Contains(t, buf.String(), `msg="no active session"`)

	unsubscribe()
	buf.Reset()
	require.NoError(t, store.Login(ctx, model.Identity{ID: "u1"}, "T"))
	assert.NotContains(t, buf.String(), "session active")
}

func TestRun_MissingAPIBaseURL(t *testing.T) {
	setTestEnv(t)
	t.Setenv("API_BASE_URL", "")

	err := Run(io.Discard, io.Discard, []string{"whoami"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")
}

func TestRun_WhoamiNotSignedIn(t *testing.T) {
	setTestEnv(t)

	var out bytes.Buffer
	require.NoError(t, Run(&out, io.Discard, []string{"whoami"}))
	assert.Equal(t, "Not signed in\n", out.String())
}

func TestRun_WhoamiSignedIn(t *testing.T) {
	path := setTestEnv(t)
	seedSession(t, path, model.Identity{ID: "u1", Name: "Alice", Email: "alice@example.com"}, "T")

	var out bytes.Buffer
	require.NoError(t, Run(&out, io.Discard, []string{"whoami"}))
	assert.Equal(t, "Alice <alice@example.com> (u1)\n", out.String())
}

func TestRun_LogoutClearsStoredSession(t *testing.T) {
	path := setTestEnv(t)
	seedSession(t, path, model.Identity{ID: "u1", Name: "Alice"}, "T")

	var out bytes.Buffer
	require.NoError(t, Run(&out, io.Discard, []string{"logout"}))
	assert.Equal(t, "Signed out\n", out.String())

	out.Reset()
	require.NoError(t, Run(&out, io.Discard, []string{"whoami"}))
	assert.Equal(t, "Not signed in\n", out.String())
}

func TestRun_ServeFailsOnBadPort(t *testing.T) {
	setTestEnv(t)
	t.Setenv("PORT", "-1")

	err := Run(io.Discard, io.Discard, []string{"serve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
}
