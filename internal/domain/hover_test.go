package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/hoverlate/internal/document"
	"github.com/davidbz/hoverlate/internal/domain"
)

func hoverAt(doc domain.Document, line, character int, selections ...domain.Selection) *domain.HoverRequest {
	return &domain.HoverRequest{
		Document:   doc,
		Position:   domain.Position{Line: line, Character: character},
		Selections: selections,
	}
}

func TestHoverService_Hover(t *testing.T) {
	ctx := context.Background()
	doc := document.New("file:///greeting.txt", "say hello to xyz")

	newReadyService := func(t *testing.T) (*domain.HoverService, *lifecycleFixture, *fakeProvider) {
		t.Helper()

		provider := &fakeProvider{
			attribution:  "Dict",
			translations: map[string]string{"hello": "你好"},
		}
		f := newLifecycleFixture("dict.plugin")
		f.registry.providers["dict.plugin"] = provider
		require.NoError(t, f.manager.Reload(ctx))

		return domain.NewHoverService(f.manager, domain.TranslateOptions{}), f, provider
	}

	t.Run("should translate once and then serve from cache", func(t *testing.T) {
		service, f, provider := newReadyService(t)

		want := &domain.HoverResult{Blocks: []domain.HoverBlock{
			{Kind: domain.BlockMarkdown, Value: "[Hover Translate] $(sync) Dict"},
			{Kind: domain.BlockPlainText, Value: "你好"},
		}}

		first, err := service.Hover(ctx, hoverAt(doc, 0, 6))
		require.NoError(t, err)
		require.Equal(t, want, first)
		require.Equal(t, 1, provider.Calls())
		require.Equal(t, 1, f.cache.Len(ctx))

		second, err := service.Hover(ctx, hoverAt(doc, 0, 5))
		require.NoError(t, err)
		require.Equal(t, want, second)
		require.Equal(t, 1, provider.Calls())
	})

	t.Run("should fetch attribution once per generation", func(t *testing.T) {
		service, f, provider := newReadyService(t)
		require.Equal(t, 1, provider.AttributionCalls())

		for _, character := range []int{6, 14, 6} {
			result, err := service.Hover(ctx, hoverAt(doc, 0, character))
			require.NoError(t, err)
			require.Equal(t, "[Hover Translate] $(sync) Dict", result.Blocks[0].Value)
		}
		require.Equal(t, 1, provider.AttributionCalls())

		require.NoError(t, f.manager.Reload(ctx))
		_, err := service.Hover(ctx, hoverAt(doc, 0, 6))
		require.NoError(t, err)
		require.Equal(t, 2, provider.AttributionCalls())
	})

	t.Run("should show the failure message without caching it", func(t *testing.T) {
		service, f, provider := newReadyService(t)

		result, err := service.Hover(ctx, hoverAt(doc, 0, 14))
		require.NoError(t, err)
		require.Len(t, result.Blocks, 2)
		require.Equal(t, domain.FailureMessage, result.Blocks[1].Value)
		require.Equal(t, 0, f.cache.Len(ctx))

		_, err = service.Hover(ctx, hoverAt(doc, 0, 14))
		require.NoError(t, err)
		require.Equal(t, 2, provider.Calls())
	})

	t.Run("should prefer the selection under the cursor", func(t *testing.T) {
		service, _, provider := newReadyService(t)
		provider.translations["say hello"] = "打个招呼"

		sel := domain.Selection{
			Start: domain.Position{Line: 0, Character: 0},
			End:   domain.Position{Line: 0, Character: 9},
		}
		result, err := service.Hover(ctx, hoverAt(doc, 0, 2, sel))
		require.NoError(t, err)
		require.Equal(t, "打个招呼", result.Blocks[1].Value)
	})

	t.Run("should return nothing when no word is under the cursor", func(t *testing.T) {
		service, _, provider := newReadyService(t)

		result, err := service.Hover(ctx, hoverAt(document.New("x", "a  b"), 0, 2))
		require.NoError(t, err)
		require.Nil(t, result)
		require.Equal(t, 0, provider.Calls())
	})

	t.Run("should return nothing when no provider is ready", func(t *testing.T) {
		f := newLifecycleFixture("")
		require.Error(t, f.manager.Reload(ctx))
		service := domain.NewHoverService(f.manager, domain.TranslateOptions{})

		result, err := service.Hover(ctx, hoverAt(doc, 0, 6))
		require.NoError(t, err)
		require.Nil(t, result)
	})

	t.Run("should reject requests without a document", func(t *testing.T) {
		service, _, _ := newReadyService(t)

		_, err := service.Hover(ctx, nil)
		require.Error(t, err)

		_, err = service.Hover(ctx, &domain.HoverRequest{})
		require.Error(t, err)
	})

	t.Run("should not cache a translation finished after a reload", func(t *testing.T) {
		service, f, provider := newReadyService(t)
		f.manager.Watch()

		provider.onTranslate = func(ctx context.Context) {
			provider.onTranslate = nil
			require.NoError(t, f.settings.SetTranslatorID(ctx, "dict.plugin"))
		}

		result, err := service.Hover(ctx, hoverAt(doc, 0, 6))
		require.NoError(t, err)
		require.Equal(t, "你好", result.Blocks[1].Value)
		require.Equal(t, domain.StateReady, f.manager.State())
		require.Equal(t, 0, f.cache.Len(ctx))
	})
}
