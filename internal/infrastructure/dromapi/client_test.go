package dromapi

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/dromsync/backend/internal/application/sync"
	"github.com/dromsync/backend/internal/domain/shared"
	"github.com/dromsync/backend/internal/infrastructure/config"
)

var _ appsync.DromClient = (*Client)(nil)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.DromConfig{
		BaseURL:         server.URL,
		Timeout:         5 * time.Second,
		MaxPayloadBytes: 5 << 20,
	}, zap.NewNop())
}

func TestClientPost(t *testing.T) {
	t.Run("accepted packet returns success", func(t *testing.T) {
		var gotPacketID, gotAuth, gotXML string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/good/packet/api/sync", r.URL.Path)
			assert.NoError(t, r.ParseMultipartForm(10 << 20))
			gotPacketID = r.FormValue("packetId")
			gotAuth = r.FormValue("auth")
			gotXML = r.FormValue("xml")
			w.WriteHeader(http.StatusOK)
		})

		ok, err := client.Post(context.Background(), "55359", "secret", []byte("<feed/>"))
		require.NoError(t, err)
		assert.True(t, ok)

		digest := sha512.Sum512([]byte("secret"))
		assert.Equal(t, "55359", gotPacketID)
		assert.Equal(t, hex.EncodeToString(digest[:]), gotAuth)
		assert.Equal(t, "<feed/>", gotXML)
	})

	t.Run("server error returns failure without error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		ok, err := client.Post(context.Background(), "55359", "secret", []byte("<feed/>"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty price list id fails before any network call", func(t *testing.T) {
		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("unexpected network call")
		})

		ok, err := client.Post(context.Background(), "", "secret", []byte("<feed/>"))
		assert.False(t, ok)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("empty auth key fails before any network call", func(t *testing.T) {
		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("unexpected network call")
		})

		ok, err := client.Post(context.Background(), "55359", "", []byte("<feed/>"))
		assert.False(t, ok)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("oversized payload is rejected locally", func(t *testing.T) {
		client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("unexpected network call")
		})
		client.maxPayload = 16

		ok, err := client.Post(context.Background(), "55359", "secret", bytes.Repeat([]byte("x"), 32))
		assert.False(t, ok)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unreachable server surfaces transport error", func(t *testing.T) {
		client := NewClient(config.DromConfig{
			BaseURL:         "http://127.0.0.1:1",
			Timeout:         time.Second,
			MaxPayloadBytes: 5 << 20,
		}, zap.NewNop())

		_, err := client.Post(context.Background(), "55359", "secret", []byte("<feed/>"))
		assert.Error(t, err)
	})
}
