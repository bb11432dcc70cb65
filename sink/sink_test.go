package sink

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/capbridge/schema"
	"github.com/viant/jsonrpc"
)

type notifier struct {
	notifications []*jsonrpc.Notification
}

func (n *notifier) Notify(ctx context.Context, notification *jsonrpc.Notification) error {
	n.notifications = append(n.notifications, notification)
	return nil
}

func emitAll(t *testing.T, s Sink) {
	ctx := context.Background()
	require.NoError(t, s.TriggerUpdate(ctx, "r1", "kind=error", true, 1))
	require.NoError(t, s.FeatureAccessChanged(ctx, "f1", "allowed=0", "allowed=1", 2))
	require.NoError(t, s.PurchaseRequest(ctx, "request_id=p"))
	require.NoError(t, s.RestoreRequest(ctx, "request_id=r"))
	require.NoError(t, s.FlowPresented(ctx, "flow", 3))
	require.NoError(t, s.FlowDismissed(ctx, "flow_id=flow", 4))
}

func TestRecorder(t *testing.T) {
	recorder, s := NewRecorder()
	emitAll(t, s)
	events := recorder.Events()
	require.Len(t, events, 6)
	assert.Equal(t, []string{
		schema.EventTriggerUpdate, schema.EventFeatureAccessChanged, schema.EventPurchaseRequest,
		schema.EventRestoreRequest, schema.EventFlowPresented, schema.EventFlowDismissed,
	}, names(events))
	assert.True(t, events[0].Terminal)
	assert.Len(t, recorder.Events(schema.EventFlowPresented), 1)
	recorder.Reset()
	assert.Empty(t, recorder.Events())
}

func TestListener(t *testing.T) {
	var received []string
	s := NewListener(&ListenerFuncs{
		TriggerUpdate: func(requestID, payload string, terminal bool, timestampMs int64) {
			received = append(received, "trigger:"+requestID)
		},
		PurchaseRequest: func(payload string) {
			received = append(received, "purchase:"+payload)
		},
	})
	emitAll(t, s)
	assert.Equal(t, []string{"trigger:r1", "purchase:request_id=p"}, received)
}

func TestNotifier(t *testing.T) {
	n := &notifier{}
	emitAll(t, NewNotifier(n))
	require.Len(t, n.notifications, 6)
	assert.Equal(t, schema.EventTriggerUpdate, n.notifications[0].Method)

	params := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(n.notifications[0].Params, &params))
	assert.Equal(t, "r1", params["requestId"])
	assert.Equal(t, "kind=error", params["payload"])
	assert.Equal(t, true, params["terminal"])
}

func TestEvent_Topic(t *testing.T) {
	assert.Equal(t, "restoreRequest", (&Event{Name: schema.EventRestoreRequest}).Topic())
	assert.Equal(t, "plain", (&Event{Name: "plain"}).Topic())
}

func names(events []*Event) []string {
	var ret []string
	for _, event := range events {
		ret = append(ret, event.Name)
	}
	return ret
}
