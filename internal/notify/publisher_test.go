package notify

import (
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()
	server, err := natsserver.NewServer(&natsserver.Options{
		Host: "127.0.0.1",
		Port: -1,
	})
	require.NoError(t, err)

	go server.Start()
	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}
	t.Cleanup(server.Shutdown)
	return server
}

func TestPublisher_Publish(t *testing.T) {
	server := runNATSServer(t)

	sub, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	defer sub.Close()

	messages := make(chan *nats.Msg, 1)
	subscription, err := sub.ChanSubscribe("orgpulse.runs", messages)
	require.NoError(t, err)
	defer subscription.Unsubscribe()
	require.NoError(t, sub.Flush())

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	p, err := NewPublisher(server.ClientURL(), "orgpulse.runs", logger)
	require.NoError(t, err)
	defer p.Close()

	want := RunSummary{
		RunID:   "run-1",
		Org:     "acme",
		Stages:  []string{"process", "aggregate"},
		Success: true,
		Events:  42,
		Edges:   7,
	}
	require.NoError(t, p.Publish(want))

	select {
	case msg := <-messages:
		var got RunSummary
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run summary")
	}
}

func TestNewPublisher_Unreachable(t *testing.T) {
	_, err := NewPublisher("nats://127.0.0.1:1", "orgpulse.runs", nil)
	assert.Error(t, err)
}
