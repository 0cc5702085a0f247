package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"health-heroes/internal/core/ai"
	"health-heroes/internal/core/ai/aitest"
	"health-heroes/internal/core/ai/cache"
	"health-heroes/internal/core/ai/provider"
	"health-heroes/internal/infrastructure/config"
	"health-heroes/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) cache.Store {
	t.Helper()
	store := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGenerateBuildsMessages(t *testing.T) {
	fake := aitest.NewProvider("  answer  ")
	svc := NewService(fake, nil)

	out, err := svc.Generate(context.Background(), Request{
		Purpose: ai.PurposeChat,
		System:  "system prompt",
		History: []provider.Message{
			{Role: provider.RoleUser, Content: "q1"},
			{Role: provider.RoleAssistant, Content: "a1"},
		},
		Prompt: "q2",
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", out)

	req := fake.LastRequest()
	require.Len(t, req.Messages, 4)
	assert.Equal(t, provider.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "q1", req.Messages[1].Content)
	assert.Equal(t, provider.Message{Role: provider.RoleUser, Content: "q2"}, req.Messages[3])
}

func TestGenerateUsesCacheOnlyWhenCacheable(t *testing.T) {
	fake := aitest.NewProvider("first", "second")
	svc := NewService(fake, newStore(t))
	ctx := context.Background()

	req := Request{Purpose: ai.PurposeMeal, Prompt: "make dinner", Cacheable: true}
	out1, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	out2, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "first", out1)
	assert.Equal(t, "first", out2)
	assert.Equal(t, 1, fake.Calls())

	req.Cacheable = false
	out3, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "second", out3)
	assert.Equal(t, 2, fake.Calls())
}

func TestGenerateWrapsProviderErrors(t *testing.T) {
	fake := aitest.NewProvider("unused").FailWith(errors.New("upstream down"))
	svc := NewService(fake, nil)

	_, err := svc.Generate(context.Background(), Request{Purpose: ai.PurposeChat, Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAIServiceError))
}

func TestGenerateReportsCancelledContext(t *testing.T) {
	fake := aitest.NewProvider().FailWith(context.Canceled)
	svc := NewService(fake, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, Request{Purpose: ai.PurposeChat, Prompt: "hi"})
	assert.True(t, errors.Is(err, common.ErrGatewayTimeout))
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	svc := NewService(aitest.NewProvider("x"), nil)

	_, err := svc.Generate(context.Background(), Request{Prompt: "   "})
	assert.True(t, errors.Is(err, common.ErrInvalidRequest))
}

func TestCacheStats(t *testing.T) {
	assert.Nil(t, NewService(aitest.NewProvider(), nil).CacheStats())
	stats := NewService(aitest.NewProvider(), newStore(t)).CacheStats()
	assert.Equal(t, config.CacheBackendMemory, stats["backend"])
}
