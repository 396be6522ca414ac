package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/hoverlate/internal/catalog"
	"github.com/davidbz/hoverlate/internal/domain"
)

type stubProvider struct{}

func (stubProvider) AttributionMarkup(_ context.Context) (string, error) { return "stub", nil }

func (stubProvider) Translate(_ context.Context, text string, _ domain.TranslateOptions) (string, error) {
	return text, nil
}

func activateStub(_ context.Context) (domain.Provider, error) { return stubProvider{}, nil }

func TestCatalog_Install(t *testing.T) {
	t.Run("should keep installation order", func(t *testing.T) {
		c := catalog.New()

		for _, id := range []string{"b.second", "a.first", "c.third"} {
			require.NoError(t, c.Install(catalog.Plugin{
				ID:       id,
				Manifest: catalog.NewManifest(id, id, id),
				Activate: activateStub,
			}))
		}

		plugins := c.All()
		require.Len(t, plugins, 3)
		require.Equal(t, "b.second", plugins[0].ID)
		require.Equal(t, "a.first", plugins[1].ID)
		require.Equal(t, "c.third", plugins[2].ID)
	})

	t.Run("should reject duplicate ids", func(t *testing.T) {
		c := catalog.New()
		plugin := catalog.Plugin{ID: "x", Manifest: []byte(`{}`), Activate: activateStub}

		require.NoError(t, c.Install(plugin))
		err := c.Install(plugin)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already installed")
	})

	t.Run("should reject invalid plugins", func(t *testing.T) {
		c := catalog.New()

		require.Error(t, c.Install(catalog.Plugin{ID: "", Manifest: []byte(`{}`), Activate: activateStub}))
		require.Error(t, c.Install(catalog.Plugin{ID: "x", Manifest: []byte(`{}`)}))
		require.Error(t, c.Install(catalog.Plugin{ID: "x", Manifest: []byte(`{`), Activate: activateStub}))
	})
}

func TestPlugin_Manifest(t *testing.T) {
	t.Run("should read contribution and display name", func(t *testing.T) {
		plugin := catalog.Plugin{ID: "acme.tr", Manifest: catalog.NewManifest("tr", "Acme Translator", "Acme")}

		label, ok := plugin.Contribution(catalog.CapabilityKey)
		require.True(t, ok)
		require.Equal(t, "Acme", label)
		require.Equal(t, "Acme Translator", plugin.DisplayName())
	})

	t.Run("should report missing contribution", func(t *testing.T) {
		plugin := catalog.Plugin{ID: "acme.other", Manifest: []byte(`{"contributes":{"themes":"x"}}`)}

		_, ok := plugin.Contribution(catalog.CapabilityKey)
		require.False(t, ok)
		require.Equal(t, "acme.other", plugin.DisplayName())
	})

	t.Run("should handle keys with path characters", func(t *testing.T) {
		plugin := catalog.Plugin{ID: "x", Manifest: []byte(`{"contributes":{"a.b":"dotted"}}`)}

		label, ok := plugin.Contribution("a.b")
		require.True(t, ok)
		require.Equal(t, "dotted", label)
	})
}

func TestCatalog_Activate(t *testing.T) {
	t.Run("should activate a plugin only once", func(t *testing.T) {
		c := catalog.New()
		calls := 0
		require.NoError(t, c.Install(catalog.Plugin{
			ID:       "x",
			Manifest: []byte(`{}`),
			Activate: func(ctx context.Context) (domain.Provider, error) {
				calls++
				return stubProvider{}, nil
			},
		}))

		for range 3 {
			provider, found, err := c.Activate(context.Background(), "x")
			require.NoError(t, err)
			require.True(t, found)
			require.NotNil(t, provider)
		}
		require.Equal(t, 1, calls)
	})

	t.Run("should retry after a failed activation", func(t *testing.T) {
		c := catalog.New()
		calls := 0
		require.NoError(t, c.Install(catalog.Plugin{
			ID:       "x",
			Manifest: []byte(`{}`),
			Activate: func(ctx context.Context) (domain.Provider, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("boom")
				}
				return stubProvider{}, nil
			},
		}))

		_, found, err := c.Activate(context.Background(), "x")
		require.True(t, found)
		require.Error(t, err)

		provider, _, err := c.Activate(context.Background(), "x")
		require.NoError(t, err)
		require.NotNil(t, provider)
		require.Equal(t, 2, calls)
	})

	t.Run("should report unknown ids as not found", func(t *testing.T) {
		provider, found, err := catalog.New().Activate(context.Background(), "missing")
		require.NoError(t, err)
		require.False(t, found)
		require.Nil(t, provider)
	})
}
