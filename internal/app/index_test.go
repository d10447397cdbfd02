package app

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	ta := newTestApp(t)
	ta.write(t, "1. Codul Fiscal 20230101120000.txt", "Impozitul pe venit se aplică veniturilor.")
	ta.write(t, "codul_muncii.txt", strings.Repeat("a", 2701))
	ta.write(t, "EU/gdpr.txt", "Regulamentul privind protecția datelor.")
	ta.write(t, "EU/.DS_Store", "x")

	res, err := ta.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Renamed: 1, Documents: 3, Chunks: 5}, res)

	assert.FileExists(t, ta.base+"/Codul_Fiscal.txt")

	records, err := ta.store.Load()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "Codul_Fiscal.txt", records[0].Doc)
	assert.Equal(t, "codul_muncii.txt", records[1].Doc)
	assert.Equal(t, "gdpr.txt", records[4].Doc)
}

func TestSync_Idempotent(t *testing.T) {
	ta := newTestApp(t)
	ta.write(t, "codul_fiscal.txt", strings.Repeat("impozit pe venit ", 300))
	ta.write(t, "EU/gdpr.txt", "date personale")

	_, err := ta.Sync(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(ta.cfg.DatasetFile)
	require.NoError(t, err)

	_, err = ta.Sync(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(ta.cfg.DatasetFile)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSync_BadDocumentKeepsCorpus(t *testing.T) {
	ta := newTestApp(t)
	ta.write(t, "codul_fiscal.txt", "impozit")

	_, err := ta.Sync(context.Background())
	require.NoError(t, err)
	before, err := os.ReadFile(ta.cfg.DatasetFile)
	require.NoError(t, err)

	ta.write(t, "stricat.txt", "\xc3\x28")
	_, err = ta.Sync(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stricat.txt")

	after, err := os.ReadFile(ta.cfg.DatasetFile)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
