package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fitai/fitai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, apiKey string, handler http.HandlerFunc) (*OpenAIGateway, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		OpenAIAPIKey:      apiKey,
		OpenAIModel:       "gpt-3.5-turbo",
		OpenAIBaseURL:     srv.URL,
		AIMaxOutputTokens: 1000,
		AITemperature:     0.7,
		AITimeoutSeconds:  2,
	}
	return NewOpenAIGateway(cfg), &hits
}

func TestOpenAIGatewayUnconfiguredMakesNoRequest(t *testing.T) {
	gw, hits := newTestGateway(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := gw.Complete(context.Background(), Request{User: "hi"})

	require.Error(t, err)
	assert.Equal(t, KindUnconfigured, KindOf(err))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, gw.Configured())
	assert.Equal(t, int32(0), hits.Load())
}

func TestOpenAIGatewayReturnsFirstChoiceVerbatim(t *testing.T) {
	gw, hits := newTestGateway(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatCompletionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-3.5-turbo", body.Model)
		assert.Equal(t, 1000, body.MaxTokens)
		assert.InDelta(t, 0.7, body.Temperature, 1e-9)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "You are a coach.", body.Messages[0].Content)
		assert.Equal(t, "user", body.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"a\":1}\n"}},{"message":{"content":"second"}}]}`))
	})

	out, err := gw.Complete(context.Background(), Request{System: "You are a coach.", User: "Plan my day"})

	require.NoError(t, err)
	assert.Equal(t, "  {\"a\":1}\n", out)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenAIGatewayMaxTokensOverride(t *testing.T) {
	gw, _ := newTestGateway(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
		var body chatCompletionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 150, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		w.Write([]byte(`{"choices":[]}`))
	})

	out, err := gw.Complete(context.Background(), Request{User: "food", MaxTokens: 150})

	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestOpenAIGatewayTransportFailures(t *testing.T) {
	t.Run("non-2xx is not retried", func(t *testing.T) {
		gw, hits := newTestGateway(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := gw.Complete(context.Background(), Request{User: "x"})

		require.Error(t, err)
		assert.Equal(t, KindTransport, KindOf(err))
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("undecodable envelope", func(t *testing.T) {
		gw, _ := newTestGateway(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway error</html>`))
		})

		_, err := gw.Complete(context.Background(), Request{User: "x"})
		assert.Equal(t, KindTransport, KindOf(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		gw, _ := newTestGateway(t, "sk-test", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := gw.Complete(ctx, Request{User: "x"})
		require.Error(t, err)
		assert.Equal(t, KindTransport, KindOf(err))
	})
}

func TestNewOpenAIGatewayDefaults(t *testing.T) {
	gw := NewOpenAIGateway(&config.Config{OpenAIAPIKey: " key "})

	assert.True(t, gw.Configured())
	assert.Equal(t, "gpt-3.5-turbo", gw.Model())
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", gw.endpoint)
	assert.Equal(t, 1000, gw.maxTokens)
	assert.Equal(t, 20*time.Second, gw.httpClient.Timeout)
}
