package nats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/capbridge/sink"
)

func startTestServer(t *testing.T) *comms.Conn {
	t.Helper()
	ns, err := commsserver.NewServer(&commsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)
	go ns.Start()
	require.True(t, ns.ReadyForConnections(10*time.Second), "nats server failed to start")

	nc, err := comms.Connect(ns.ClientURL(), comms.Timeout(5*time.Second))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("nats:publisher_test - failed to connect: %v", err)
	}
	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return nc
}

func TestPublisher(t *testing.T) {
	nc := startTestServer(t)
	received := make(chan *comms.Msg, 4)
	sub, err := nc.ChanSubscribe("test.events.>", received)
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, nc.Flush())

	s := New(nc, "test.events")
	require.NoError(t, s.TriggerUpdate(context.Background(), "r1", "kind=decision", false, 42))
	require.NoError(t, s.PurchaseRequest(context.Background(), "request_id=p1"))
	require.NoError(t, nc.Flush())

	testCases := []struct {
		subject string
		expect  sink.Event
	}{
		{subject: "test.events.triggerUpdate", expect: sink.Event{RequestID: "r1", Payload: "kind=decision", TimestampMs: 42}},
		{subject: "test.events.purchaseRequest", expect: sink.Event{Payload: "request_id=p1"}},
	}
	for _, tc := range testCases {
		select {
		case msg := <-received:
			assert.Equal(t, tc.subject, msg.Subject)
			actual := sink.Event{}
			require.NoError(t, json.Unmarshal(msg.Data, &actual))
			assert.Equal(t, tc.expect, actual)
		case <-time.After(5 * time.Second):
			t.Fatalf("no message on %s", tc.subject)
		}
	}
}

func TestPublisher_DefaultPrefix(t *testing.T) {
	p := NewPublisher(nil, "")
	assert.Equal(t, "capbridge.events.flowDismissed", p.Subject(&sink.Event{Name: "events/flowDismissed"}))
}
