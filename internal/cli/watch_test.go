package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/internal/testutils"
	"github.com/aretw0/formwork/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	dir := testutils.WriteForms(t, map[string]string{
		"household.json": testutils.HouseholdJSON,
		"notes.txt":      "ignored",
	})

	first, err := fingerprint(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("still ignored"), 0644))
	same, err := fingerprint(dir)
	require.NoError(t, err)
	assert.Equal(t, first, same, "non-definition files do not count")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.json"), []byte(testutils.HouseholdJSON), 0644))
	changed, err := fingerprint(dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	_, err = fingerprint(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWatchForms(t *testing.T) {
	dir := testutils.WriteForms(t, map[string]string{"household.json": testutils.HouseholdJSON})
	eng := formwork.New()
	require.NoError(t, eng.LoadAll(context.Background(), file.NewLoader(dir)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchForms(ctx, eng, dir, 10*time.Millisecond, logging.NewNop()) }()

	broken := strings.Replace(testutils.HouseholdJSON, `"startPage": "/applicant"`, `"startPage": "/nowhere"`, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(broken), 0644))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"household"}, eng.Forms(), "a failed reload keeps the published forms")

	require.NoError(t, os.Remove(filepath.Join(dir, "broken.json")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.json"), []byte(testutils.HouseholdJSON), 0644))
	assert.Eventually(t, func() bool {
		return len(eng.Forms()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
