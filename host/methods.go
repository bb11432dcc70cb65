package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/viant/jsonrpc"
)

func decode[T any](request *jsonrpc.Request) (*T, *jsonrpc.Error) {
	ret := new(T)
	if len(request.Params) == 0 {
		return ret, nil
	}
	if err := json.Unmarshal(request.Params, ret); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(fmt.Sprintf("failed to parse params: %v", err), request.Params)
	}
	return ret, nil
}

func (h *Handler) configure(ctx context.Context, request *jsonrpc.Request) (*Empty, *jsonrpc.Error) {
	params, rpcErr := decode[ConfigureParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := h.bridge.Configure(ctx, params.APIKey, string(params.Options), params.UsePurchaseFlow); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) shutdown(ctx context.Context) (*Empty, *jsonrpc.Error) {
	if err := h.bridge.Shutdown(ctx); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) identify(ctx context.Context, request *jsonrpc.Request) (*Empty, *jsonrpc.Error) {
	params, rpcErr := decode[IdentifyParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := h.bridge.Identify(ctx, params.DistinctID, string(params.Properties), string(params.SetOnce)); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) reset(ctx context.Context, request *jsonrpc.Request) (*Empty, *jsonrpc.Error) {
	params, rpcErr := decode[ResetParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := h.bridge.Reset(ctx, params.KeepAnonymousID); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) identity(ctx context.Context) (interface{}, *jsonrpc.Error) {
	ret, err := h.bridge.Identity(ctx)
	if err != nil {
		return nil, asRPCError(err)
	}
	return ret, nil
}

// startTrigger registers the stream before replying and lets the provider run detached from
// the request, so the response does not wait for purchases the trigger may raise.
func (h *Handler) startTrigger(ctx context.Context, request *jsonrpc.Request) (*Empty, *jsonrpc.Error) {
	params, rpcErr := decode[StartTriggerParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := h.bridge.OpenTrigger(params.RequestID, params.EventName); err != nil {
		return nil, asRPCError(err)
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := h.bridge.RunTrigger(detached, params.RequestID, params.EventName, string(params.Options)); err != nil {
			slog.Warn(fmt.Sprintf("%s - trigger %q not started: %v", logPrefix, params.RequestID, err))
		}
	}()
	return &Empty{}, nil
}

func (h *Handler) cancelTrigger(ctx context.Context, request *jsonrpc.Request) (*Empty, *jsonrpc.Error) {
	params, rpcErr := decode[CancelTriggerParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := h.bridge.CancelTrigger(ctx, params.RequestID); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) showFlow(ctx context.Context, request *jsonrpc.Request) (*Empty, *jsonrpc.Error) {
	params, rpcErr := decode[ShowFlowParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := h.bridge.ShowFlow(ctx, params.FlowID); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) refreshProfile(ctx context.Context) (*PayloadResult, *jsonrpc.Error) {
	payload, err := h.bridge.RefreshProfile(ctx)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &PayloadResult{Payload: payload}, nil
}

func (h *Handler) hasFeature(ctx context.Context, request *jsonrpc.Request) (*PayloadResult, *jsonrpc.Error) {
	params, rpcErr := decode[FeatureParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	payload, err := h.bridge.HasFeature(ctx, params.FeatureID, params.RequiredBalance, params.EntityID)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &PayloadResult{Payload: payload}, nil
}

func (h *Handler) checkFeature(ctx context.Context, request *jsonrpc.Request) (*PayloadResult, *jsonrpc.Error) {
	params, rpcErr := decode[FeatureParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	payload, err := h.bridge.CheckFeature(ctx, params.FeatureID, params.RequiredBalance, params.EntityID, params.ForceRefresh)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &PayloadResult{Payload: payload}, nil
}

func (h *Handler) useFeature(ctx context.Context, request *jsonrpc.Request) (*Empty, *jsonrpc.Error) {
	params, rpcErr := decode[FeatureParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := h.bridge.UseFeature(ctx, params.FeatureID, params.Amount, params.EntityID, string(params.Metadata)); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) useFeatureAndWait(ctx context.Context, request *jsonrpc.Request) (*PayloadResult, *jsonrpc.Error) {
	params, rpcErr := decode[FeatureParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	payload, err := h.bridge.UseFeatureAndWait(ctx, params.FeatureID, params.Amount, params.EntityID, params.SetUsage, string(params.Metadata))
	if err != nil {
		return nil, asRPCError(err)
	}
	return &PayloadResult{Payload: payload}, nil
}

func (h *Handler) flushEvents(ctx context.Context) (*FlushResult, *jsonrpc.Error) {
	flushed, err := h.bridge.FlushEvents(ctx)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &FlushResult{Flushed: flushed}, nil
}

func (h *Handler) queuedEventCount(ctx context.Context) (*CountResult, *jsonrpc.Error) {
	count, err := h.bridge.QueuedEventCount(ctx)
	if err != nil {
		return nil, asRPCError(err)
	}
	return &CountResult{Count: count}, nil
}

func (h *Handler) pauseEvents(ctx context.Context) (*Empty, *jsonrpc.Error) {
	if err := h.bridge.PauseEventQueue(ctx); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) resumeEvents(ctx context.Context) (*Empty, *jsonrpc.Error) {
	if err := h.bridge.ResumeEventQueue(ctx); err != nil {
		return nil, asRPCError(err)
	}
	return &Empty{}, nil
}

func (h *Handler) completePurchase(ctx context.Context, request *jsonrpc.Request) (*CompleteResult, *jsonrpc.Error) {
	params, rpcErr := decode[CompleteParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	resolved, err := h.bridge.CompletePurchase(ctx, params.RequestID, string(params.Result))
	if err != nil {
		return nil, asRPCError(err)
	}
	return &CompleteResult{Resolved: resolved}, nil
}

func (h *Handler) completeRestore(ctx context.Context, request *jsonrpc.Request) (*CompleteResult, *jsonrpc.Error) {
	params, rpcErr := decode[CompleteParams](request)
	if rpcErr != nil {
		return nil, rpcErr
	}
	resolved, err := h.bridge.CompleteRestore(ctx, params.RequestID, string(params.Result))
	if err != nil {
		return nil, asRPCError(err)
	}
	return &CompleteResult{Resolved: resolved}, nil
}
