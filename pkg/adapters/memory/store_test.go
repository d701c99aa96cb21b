package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_CopiesSections(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	partner := map[string]any{"name": "William"}
	require.NoError(t, store.Save(ctx, "f:s", domain.State{"partner": partner}))
	partner["name"] = "changed"

	loaded, err := store.Load(ctx, "f:s")
	require.NoError(t, err)
	loaded.Scope("partner")["name"] = "also changed"

	again, err := store.Load(ctx, "f:s")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "William"}, again["partner"])
}
