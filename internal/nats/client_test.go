package nats

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unreachable(t *testing.T) {
	_, err := New(context.Background(), "nats://127.0.0.1:1", "test", nil)
	assert.ErrorContains(t, err, "connect to nats")
}

func TestClient_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration test; set INTEGRATION_TEST=1 to run")
	}
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		t.Skip("NATS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := New(ctx, natsURL, "client-test", nil)
	require.NoError(t, err)
	defer client.Close()
	require.True(t, client.IsConnected())
	require.NoError(t, client.EnsureJobsStream(ctx))

	received := make(chan []byte, 1)
	subCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- client.Subscribe(subCtx, "", SubjectAll, func(subject string, data []byte) error {
			if subject == SubjectDeleted {
				received <- data
			}
			return nil
		})
	}()

	// the consumer only sees messages published after it exists
	require.Eventually(t, func() bool {
		_ = client.Publish(ctx, SubjectDeleted, map[string]string{"id": "42"})
		select {
		case data := <-received:
			var payload map[string]string
			require.NoError(t, json.Unmarshal(data, &payload))
			assert.Equal(t, "42", payload["id"])
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	stop()
	assert.NoError(t, <-done)
}
