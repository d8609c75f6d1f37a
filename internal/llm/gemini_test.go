package llm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeModel(t *testing.T) {
	assert.Equal(t, defaultChatModel, normalizeModel(""))
	assert.Equal(t, defaultChatModel, normalizeModel("  "))
	assert.Equal(t, "gemini-2.0-flash", normalizeModel("models/gemini-2.0-flash"))
	assert.Equal(t, "gemini-2.5-pro", normalizeModel(" gemini-2.5-pro "))
}

func TestChatCompletionRequiresCredential(t *testing.T) {
	c := NewGeminiClient("", "", time.Second, nil)

	_, err := c.ChatCompletion(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing API key")
}

func TestChatCompletionRejectsSystemOnlyHistory(t *testing.T) {
	c := NewGeminiClient("key", "", time.Second, nil)

	_, err := c.ChatCompletion(context.Background(), []ChatMessage{{Role: "system", Content: "be brief"}}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing user or assistant messages")
}

func TestSetAPIKeyDuringConcurrentReads(t *testing.T) {
	c := NewGeminiClient("first", "", time.Second, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = c.currentAPIKey()
			}
		}()
	}
	for j := 0; j < 500; j++ {
		c.SetAPIKey("second")
	}
	wg.Wait()
	assert.Equal(t, "second", c.currentAPIKey())
}
