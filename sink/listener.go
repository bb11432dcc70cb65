package sink

import "context"

// Listener is an in-process event receiver. Its methods run on the emitting goroutine
// after the bridge has released its locks, so they may call back into the bridge.
type Listener interface {
	OnTriggerUpdate(requestID, payload string, terminal bool, timestampMs int64)
	OnFeatureAccessChanged(featureID, from, to string, timestampMs int64)
	OnPurchaseRequest(payload string)
	OnRestoreRequest(payload string)
	OnFlowPresented(flowID string, timestampMs int64)
	OnFlowDismissed(payload string, timestampMs int64)
}

// ListenerFuncs implements Listener with optional functions; nil fields ignore the event.
type ListenerFuncs struct {
	TriggerUpdate        func(requestID, payload string, terminal bool, timestampMs int64)
	FeatureAccessChanged func(featureID, from, to string, timestampMs int64)
	PurchaseRequest      func(payload string)
	RestoreRequest       func(payload string)
	FlowPresented        func(flowID string, timestampMs int64)
	FlowDismissed        func(payload string, timestampMs int64)
}

func (f *ListenerFuncs) OnTriggerUpdate(requestID, payload string, terminal bool, timestampMs int64) {
	if f.TriggerUpdate != nil {
		f.TriggerUpdate(requestID, payload, terminal, timestampMs)
	}
}

func (f *ListenerFuncs) OnFeatureAccessChanged(featureID, from, to string, timestampMs int64) {
	if f.FeatureAccessChanged != nil {
		f.FeatureAccessChanged(featureID, from, to, timestampMs)
	}
}

func (f *ListenerFuncs) OnPurchaseRequest(payload string) {
	if f.PurchaseRequest != nil {
		f.PurchaseRequest(payload)
	}
}

func (f *ListenerFuncs) OnRestoreRequest(payload string) {
	if f.RestoreRequest != nil {
		f.RestoreRequest(payload)
	}
}

func (f *ListenerFuncs) OnFlowPresented(flowID string, timestampMs int64) {
	if f.FlowPresented != nil {
		f.FlowPresented(flowID, timestampMs)
	}
}

func (f *ListenerFuncs) OnFlowDismissed(payload string, timestampMs int64) {
	if f.FlowDismissed != nil {
		f.FlowDismissed(payload, timestampMs)
	}
}

type listenerSink struct {
	listener Listener
}

func (s *listenerSink) TriggerUpdate(_ context.Context, requestID, payload string, terminal bool, timestampMs int64) error {
	s.listener.OnTriggerUpdate(requestID, payload, terminal, timestampMs)
	return nil
}

func (s *listenerSink) FeatureAccessChanged(_ context.Context, featureID, from, to string, timestampMs int64) error {
	s.listener.OnFeatureAccessChanged(featureID, from, to, timestampMs)
	return nil
}

func (s *listenerSink) PurchaseRequest(_ context.Context, payload string) error {
	s.listener.OnPurchaseRequest(payload)
	return nil
}

func (s *listenerSink) RestoreRequest(_ context.Context, payload string) error {
	s.listener.OnRestoreRequest(payload)
	return nil
}

func (s *listenerSink) FlowPresented(_ context.Context, flowID string, timestampMs int64) error {
	s.listener.OnFlowPresented(flowID, timestampMs)
	return nil
}

func (s *listenerSink) FlowDismissed(_ context.Context, payload string, timestampMs int64) error {
	s.listener.OnFlowDismissed(payload, timestampMs)
	return nil
}

// NewListener adapts an in-process listener into a sink
func NewListener(listener Listener) Sink {
	return &listenerSink{listener: listener}
}
