package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware([]string{"^name$", "(?i)dob"})
	require.NoError(t, err)
	redacted := mw(underlying)

	ctx := context.Background()
	state := domain.State{
		"name":       "Ada",
		"age":        36,
		"dob":        "1815-12-10",
		"hasPartner": true,
		"partner":    map[string]any{"name": "William", "partnerDOB": "1805-05-21"},
	}
	require.NoError(t, redacted.Save(ctx, "household:s1", state))

	loaded, err := redacted.Load(ctx, "household:s1")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded["name"])
	assert.Equal(t, middleware.Mask, loaded["dob"])
	assert.EqualValues(t, 36, loaded["age"])
	assert.Equal(t, true, loaded["hasPartner"])

	partner := loaded["partner"].(map[string]any)
	assert.Equal(t, middleware.Mask, partner["name"])
	assert.Equal(t, middleware.Mask, partner["partnerDOB"])

	stored, err := underlying.Load(ctx, "household:s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored["name"], "the stored answers are untouched")
	assert.Equal(t, "William", stored["partner"].(map[string]any)["name"])
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	underlying := memory.NewStore()
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)})
	require.NoError(t, err)
	pii, err := middleware.NewPIIMiddleware([]string{"name"})
	require.NoError(t, err)

	store := middleware.Chain(underlying, pii, enc)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "f:s", domain.State{"name": "Ada"}))

	loaded, err := store.Load(ctx, "f:s")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded["name"], "masking applies to the decrypted answers")
}
