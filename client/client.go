package client

import (
	"context"
	"encoding/json"

	"github.com/viant/capbridge/host"
	"github.com/viant/capbridge/schema"
	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
)

// Client calls bridge operations on a remote host.
type Client struct {
	transport transport.Transport
}

func (c *Client) Configure(ctx context.Context, apiKey, options string, usePurchaseFlow bool) error {
	_, err := send[host.ConfigureParams, host.Empty](ctx, c, schema.MethodConfigure, &host.ConfigureParams{APIKey: apiKey, Options: host.Payload(options), UsePurchaseFlow: usePurchaseFlow})
	return err
}

func (c *Client) Shutdown(ctx context.Context) error {
	_, err := send[host.Empty, host.Empty](ctx, c, schema.MethodShutdown, &host.Empty{})
	return err
}

func (c *Client) Identify(ctx context.Context, distinctID, properties, setOnce string) error {
	_, err := send[host.IdentifyParams, host.Empty](ctx, c, schema.MethodIdentify, &host.IdentifyParams{DistinctID: distinctID, Properties: host.Payload(properties), SetOnce: host.Payload(setOnce)})
	return err
}

func (c *Client) Reset(ctx context.Context, keepAnonymousID bool) error {
	_, err := send[host.ResetParams, host.Empty](ctx, c, schema.MethodReset, &host.ResetParams{KeepAnonymousID: keepAnonymousID})
	return err
}

func (c *Client) Identity(ctx context.Context) (*schema.Identity, error) {
	return send[host.Empty, schema.Identity](ctx, c, schema.MethodIdentityGet, &host.Empty{})
}

// StartTrigger returns once the host registered the stream; updates arrive through Handler.
func (c *Client) StartTrigger(ctx context.Context, requestID, eventName, options string) error {
	_, err := send[host.StartTriggerParams, host.Empty](ctx, c, schema.MethodTriggerStart, &host.StartTriggerParams{RequestID: requestID, EventName: eventName, Options: host.Payload(options)})
	return err
}

func (c *Client) CancelTrigger(ctx context.Context, requestID string) error {
	_, err := send[host.CancelTriggerParams, host.Empty](ctx, c, schema.MethodTriggerCancel, &host.CancelTriggerParams{RequestID: requestID})
	return err
}

func (c *Client) ShowFlow(ctx context.Context, flowID string) error {
	_, err := send[host.ShowFlowParams, host.Empty](ctx, c, schema.MethodFlowShow, &host.ShowFlowParams{FlowID: flowID})
	return err
}

func (c *Client) RefreshProfile(ctx context.Context) (string, error) {
	return payload(send[host.Empty, host.PayloadResult](ctx, c, schema.MethodProfileRefresh, &host.Empty{}))
}

func (c *Client) HasFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string) (string, error) {
	params := &host.FeatureParams{FeatureID: featureID, RequiredBalance: requiredBalance, EntityID: entityID}
	return payload(send[host.FeatureParams, host.PayloadResult](ctx, c, schema.MethodFeatureHas, params))
}

func (c *Client) CheckFeature(ctx context.Context, featureID string, requiredBalance *int, entityID string, forceRefresh bool) (string, error) {
	params := &host.FeatureParams{FeatureID: featureID, RequiredBalance: requiredBalance, EntityID: entityID, ForceRefresh: forceRefresh}
	return payload(send[host.FeatureParams, host.PayloadResult](ctx, c, schema.MethodFeatureCheck, params))
}

func (c *Client) UseFeature(ctx context.Context, featureID string, amount float64, entityID, metadata string) error {
	params := &host.FeatureParams{FeatureID: featureID, Amount: amount, EntityID: entityID, Metadata: host.Payload(metadata)}
	_, err := send[host.FeatureParams, host.Empty](ctx, c, schema.MethodFeatureUse, params)
	return err
}

func (c *Client) UseFeatureAndWait(ctx context.Context, featureID string, amount float64, entityID string, setUsage bool, metadata string) (string, error) {
	params := &host.FeatureParams{FeatureID: featureID, Amount: amount, EntityID: entityID, SetUsage: setUsage, Metadata: host.Payload(metadata)}
	return payload(send[host.FeatureParams, host.PayloadResult](ctx, c, schema.MethodFeatureUseAndWait, params))
}

func (c *Client) FlushEvents(ctx context.Context) (bool, error) {
	result, err := send[host.Empty, host.FlushResult](ctx, c, schema.MethodEventsFlush, &host.Empty{})
	if err != nil {
		return false, err
	}
	return result.Flushed, nil
}

func (c *Client) QueuedEventCount(ctx context.Context) (int, error) {
	result, err := send[host.Empty, host.CountResult](ctx, c, schema.MethodEventsCount, &host.Empty{})
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (c *Client) PauseEventQueue(ctx context.Context) error {
	_, err := send[host.Empty, host.Empty](ctx, c, schema.MethodEventsPause, &host.Empty{})
	return err
}

func (c *Client) ResumeEventQueue(ctx context.Context) error {
	_, err := send[host.Empty, host.Empty](ctx, c, schema.MethodEventsResume, &host.Empty{})
	return err
}

func (c *Client) CompletePurchase(ctx context.Context, requestID, result string) (bool, error) {
	return resolved(send[host.CompleteParams, host.CompleteResult](ctx, c, schema.MethodPurchaseComplete, &host.CompleteParams{RequestID: requestID, Result: host.Payload(result)}))
}

func (c *Client) CompleteRestore(ctx context.Context, requestID, result string) (bool, error) {
	return resolved(send[host.CompleteParams, host.CompleteResult](ctx, c, schema.MethodRestoreComplete, &host.CompleteParams{RequestID: requestID, Result: host.Payload(result)}))
}

func payload(result *host.PayloadResult, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return result.Payload, nil
}

func resolved(result *host.CompleteResult, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return result.Resolved, nil
}

func send[P any, R any](ctx context.Context, client *Client, method string, parameters *P) (*R, error) {
	req, err := jsonrpc.NewRequest(method, parameters)
	if err != nil {
		return nil, jsonrpc.NewInvalidRequest(err.Error(), nil)
	}
	response, err := client.transport.Send(ctx, req)
	if err != nil {
		return nil, jsonrpc.NewInternalError(err.Error(), nil)
	}
	if response.Error != nil {
		return nil, response.Error
	}
	var result R
	if len(response.Result) > 0 {
		if err = json.Unmarshal(response.Result, &result); err != nil {
			return nil, jsonrpc.NewInternalError(err.Error(), nil)
		}
	}
	return &result, nil
}

// New creates a client sending over transport.
func New(transport transport.Transport) *Client {
	return &Client{transport: transport}
}
