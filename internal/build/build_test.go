package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/leadrank/internal/adapters/artifacts"
	"github.com/okian/leadrank/internal/domain/embed"
	"github.com/okian/leadrank/pkg/logger"
)

const buildCSV = `customer_id,name,email,industry,country,job_title,bio,company_size,web_activity_score,email_engagement_score,is_high_value
C1,Ada,Ada@Example.com,SaaS,US,CTO,Builds data platforms.,120,0.9,0.8,1
C2,Bob,bob@example.com,SaaS,US,VP Engineering,Scales infrastructure teams.,200,0.7,0.6,1
C3,Cleo,cleo@example.com,Retail,FR,Store Manager,Runs retail operations.,15,0.2,0.1,0
C4,Dan,,Retail,FR,Cashier,,5,0.1,0.05,0
`

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte(buildCSV), 0o644))
	return path
}

func TestRunPublishesBundle(t *testing.T) {
	ctx := context.Background()
	store := artifacts.NewStore(t.TempDir())
	enc := embed.NewTextEncoder(ctx, embed.TextConfig{HashingDim: 32})

	builder := NewBuilder(store,
		WithTextEncoder(enc),
		WithComponents(2),
		WithTopK(5),
	)

	bundle, err := builder.Run(ctx, writeDataset(t))
	require.NoError(t, err)

	assert.Equal(t, 32, bundle.Meta.TextDim)
	assert.Equal(t, 2, bundle.Meta.TabularDim)
	assert.Equal(t, 34, bundle.Meta.EmbeddingDim)
	assert.Equal(t, 5, bundle.Meta.TopK)
	assert.Equal(t, "hashed", bundle.Meta.TextVariant)
	assert.Equal(t, 4, bundle.Meta.RecordCount)
	assert.True(t, bundle.Meta.HasEmail)

	assert.Equal(t, []string{"C1", "C2", "C3", "C4"}, bundle.All.IDs)
	assert.Equal(t, []string{"C1", "C2"}, bundle.High.IDs)
	for _, vec := range bundle.All.Vectors {
		assert.Len(t, vec, 34)
	}

	// Emails are normalized and exclude the record without one.
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@example.com", "bob@example.com", "cleo@example.com"}, loaded.Emails)

	// Frequency encoders cover both categorical columns.
	assert.Contains(t, bundle.Encoders, "industry")
	assert.Contains(t, bundle.Encoders, "country")
	assert.InDelta(t, 0.5, bundle.Encoders["industry"]["SaaS"], 1e-12)
}

func TestRunComponentCapping(t *testing.T) {
	ctx := context.Background()
	store := artifacts.NewStore(t.TempDir())
	enc := embed.NewTextEncoder(ctx, embed.TextConfig{HashingDim: 16})

	// Requesting 16 components against 5 tabular features caps at 5.
	builder := NewBuilder(store, WithTextEncoder(enc), WithComponents(16))
	bundle, err := builder.Run(ctx, writeDataset(t))
	require.NoError(t, err)
	assert.Equal(t, 5, bundle.Meta.TabularDim)
	assert.Equal(t, 16, bundle.Tabular.Requested)
}

func TestRunEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("customer_id,name\n"), 0o644))

	store := artifacts.NewStore(t.TempDir())
	builder := NewBuilder(store, WithTextEncoder(embed.NewTextEncoder(context.Background(), embed.TextConfig{HashingDim: 8})))

	_, err := builder.Run(context.Background(), path)
	require.ErrorIs(t, err, ErrEmptyDataset)
}
