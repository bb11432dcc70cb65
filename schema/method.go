package schema

// Host invocable methods.
const (
	MethodConfigure         = "configure"
	MethodShutdown          = "shutdown"
	MethodIdentify          = "identify"
	MethodReset             = "reset"
	MethodIdentityGet       = "identity/get"
	MethodTriggerStart      = "trigger/start"
	MethodTriggerCancel     = "trigger/cancel"
	MethodFlowShow          = "flow/show"
	MethodProfileRefresh    = "profile/refresh"
	MethodFeatureHas        = "feature/has"
	MethodFeatureCheck      = "feature/check"
	MethodFeatureUse        = "feature/use"
	MethodFeatureUseAndWait = "feature/useAndWait"
	MethodEventsFlush       = "events/flush"
	MethodEventsCount       = "events/count"
	MethodEventsPause       = "events/pause"
	MethodEventsResume      = "events/resume"
	MethodPurchaseComplete  = "purchase/complete"
	MethodRestoreComplete   = "restore/complete"

	MethodNotificationCancel = "$/cancelRequest"
)

// Emitted events.
const (
	EventTriggerUpdate        = "events/triggerUpdate"
	EventFeatureAccessChanged = "events/featureAccessChanged"
	EventPurchaseRequest      = "events/purchaseRequest"
	EventRestoreRequest       = "events/restoreRequest"
	EventFlowPresented        = "events/flowPresented"
	EventFlowDismissed        = "events/flowDismissed"
)

// Platform identifies the native side that produced a request.
const Platform = "go"
