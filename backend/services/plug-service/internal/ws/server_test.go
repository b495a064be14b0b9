package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"plugsim/backend/libs/random"
	"plugsim/backend/libs/shelly"
)

func TestStatusStreamPushesDocuments(t *testing.T) {
	logger := zap.NewNop()
	manager := NewManager()
	srv := NewServer(manager, shelly.NewDevice(random.New(1), logger), 20*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	ts := httptest.NewServer(http.HandlerFunc(srv.HandleStatus))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var doc shelly.StatusDoc
		require.NoError(t, json.Unmarshal(payload, &doc))
		require.Len(t, doc.Meters, 1)
		assert.GreaterOrEqual(t, doc.Meters[0].Counters[0], 30.0)
	}
	assert.Equal(t, 1, manager.Count())

	cancel()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.Eventually(t, func() bool { return manager.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
