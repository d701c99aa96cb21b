package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/formwork/internal/testutils"
	"github.com/aretw0/formwork/pkg/adapters/file"
	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/adapters/redis"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("Memory by default", func(t *testing.T) {
		store, closeStore, err := NewStore(EngineOptions{})
		require.NoError(t, err)
		assert.Nil(t, closeStore)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("File when a session dir is set", func(t *testing.T) {
		store, _, err := NewStore(EngineOptions{SessionDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &file.Store{}, store)
	})

	t.Run("Redis wins over file", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, closeStore, err := NewStore(EngineOptions{RedisURL: "redis://" + mr.Addr(), SessionDir: t.TempDir()})
		require.NoError(t, err)
		require.NotNil(t, closeStore)
		defer closeStore()
		assert.IsType(t, &redis.Store{}, store)
	})

	t.Run("Bad redis URL", func(t *testing.T) {
		_, _, err := NewStore(EngineOptions{RedisURL: "://nope"})
		assert.Error(t, err)
	})
}

func TestNewEngine(t *testing.T) {
	ctx := context.Background()
	dir := testutils.WriteForms(t, map[string]string{"household.json": testutils.HouseholdJSON})

	var published []string
	rt, err := NewEngine(ctx, EngineOptions{
		Dir:        dir,
		SessionDir: filepath.Join(t.TempDir(), "sessions"),
		Hooks: domain.LifecycleHooks{
			OnPublish: func(_ context.Context, e *domain.PublishEvent) { published = append(published, e.FormID) },
		},
	})
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, []string{"household"}, rt.Engine.Forms())
	assert.Equal(t, []string{"household"}, published)

	_, err = rt.Engine.SubmitPage(ctx, "household", "/has-partner", "s1", map[string]any{"hasPartner": "no"}, "")
	require.NoError(t, err)
	keys, err := rt.Store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"household:s1"}, keys, "answers land in the file store")
}

func TestNewEngine_WithRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	dir := testutils.WriteForms(t, map[string]string{"household.json": testutils.HouseholdJSON})

	rt, err := NewEngine(ctx, EngineOptions{Dir: dir, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer rt.Close()

	_, err = rt.Engine.SubmitPage(ctx, "household", "/has-partner", "s1", map[string]any{"hasPartner": "yes"}, "")
	require.NoError(t, err)

	state, err := rt.Engine.State(ctx, "household", "s1")
	require.NoError(t, err)
	assert.Equal(t, true, state["hasPartner"])
}

func TestNewEngine_BadDefinitions(t *testing.T) {
	dir := testutils.WriteForms(t, map[string]string{
		"broken.json": `{"startPage": "/x", "pages": [{"path": "/y"}]}`,
	})

	_, err := NewEngine(context.Background(), EngineOptions{Dir: dir})
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = NewEngine(context.Background(), EngineOptions{Dir: filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestNewEngine_EncryptedSessions(t *testing.T) {
	ctx := context.Background()
	dir := testutils.WriteForms(t, map[string]string{"household.json": testutils.HouseholdJSON})
	sessions := t.TempDir()
	key := strings.Repeat("ab", 32)

	rt, err := NewEngine(ctx, EngineOptions{Dir: dir, SessionDir: sessions, SessionKey: key})
	require.NoError(t, err)

	_, err = rt.Engine.SubmitPage(ctx, "household", "/applicant", "s1", map[string]any{"name": "Ada", "age": "36"}, "")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(sessions, "household", "s1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Ada")
	assert.Contains(t, string(raw), middleware.EnvelopeKey)

	state, err := rt.Engine.State(ctx, "household", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", state["name"])

	_, err = NewEngine(ctx, EngineOptions{Dir: dir, SessionKey: "short"})
	assert.ErrorContains(t, err, "session key")
}

func TestWrapStore_Redact(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, "household:s1", domain.State{"name": "Ada", "age": 36}))

	store, err := WrapStore(underlying, "", []string{"^name$"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, InspectSession(ctx, store, "household", "s1", &out))
	assert.Contains(t, out.String(), `"name": "***"`)
	assert.Contains(t, out.String(), `"age": 36`)

	_, err = WrapStore(underlying, "", []string{"("})
	assert.Error(t, err)
}
