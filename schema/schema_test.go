package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/capbridge/codec"
)

func TestFeature_RoundTrip(t *testing.T) {
	balance := 40
	current, limit := 3.0, 10.0
	access := &FeatureAccess{Allowed: true, Balance: &balance, Type: FeatureTypeCreditSystem}
	actualAccess := &FeatureAccess{}
	codec.Unmarshal(codec.Marshal(access), actualAccess)
	assert.EqualValues(t, access, actualAccess)

	check := &FeatureCheck{CustomerID: "cu", FeatureID: "export", RequiredBalance: 2, Code: "ok", Access: FeatureAccess{Unlimited: true, Type: FeatureTypeMetered}}
	actualCheck := &FeatureCheck{}
	codec.Unmarshal(codec.Marshal(check), actualCheck)
	assert.EqualValues(t, check, actualCheck)

	usage := &FeatureUsage{Success: true, FeatureID: "export", AmountUsed: 1.5, UsageCurrent: &current, UsageLimit: &limit}
	actualUsage := &FeatureUsage{}
	codec.Unmarshal(codec.Marshal(usage), actualUsage)
	assert.EqualValues(t, usage, actualUsage)
	assert.Nil(t, actualUsage.UsageRemaining)
}

func TestFeatureAccess_Decode(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      *FeatureAccess
	}{
		{description: "snake case credit system", input: "allowed=true&type=credit_system", expect: &FeatureAccess{Allowed: true, Type: FeatureTypeCreditSystem}},
		{description: "balance flag off ignores balance", input: "has_balance=0&balance=0&type=metered", expect: &FeatureAccess{Type: FeatureTypeMetered}},
		{description: "balance without flag", input: "balance=7", expect: &FeatureAccess{Balance: intPtr(7), Type: FeatureTypeBoolean}},
		{description: "malformed balance", input: "has_balance=1&balance=lots", expect: &FeatureAccess{Balance: intPtr(0), Type: FeatureTypeBoolean}},
	}
	for _, tc := range testCases {
		actual := &FeatureAccess{}
		codec.Unmarshal(tc.input, actual)
		assert.EqualValues(t, tc.expect, actual, tc.description)
	}
}

func TestPurchase_RoundTrip(t *testing.T) {
	price := 4.99
	request := NewPurchaseRequest("pro_monthly")
	request.Price = &price
	request.CurrencyCode = "USD"
	request.DisplayPrice = "$4.99"
	actualRequest := &PurchaseRequest{}
	codec.Unmarshal(codec.Marshal(request), actualRequest)
	assert.EqualValues(t, request, actualRequest)
	assert.NotEmpty(t, request.RequestID)
	assert.NotEqual(t, request.RequestID, NewPurchaseRequest("pro_monthly").RequestID)

	result := &PurchaseResult{Kind: PurchaseResultSuccess, ProductID: "pro_monthly", PurchaseToken: "tok=1&2", OrderID: "GPA.1"}
	actualResult := &PurchaseResult{}
	codec.Unmarshal(codec.Marshal(result), actualResult)
	assert.EqualValues(t, result, actualResult)
}

func TestResult_DecodeDefaultsToFailed(t *testing.T) {
	purchase := &PurchaseResult{}
	codec.Unmarshal("product_id=p", purchase)
	assert.Equal(t, PurchaseResultFailed, purchase.Kind)
	codec.Unmarshal("kind=refunded", purchase)
	assert.Equal(t, PurchaseResultFailed, purchase.Kind)

	restore := &RestoreResult{}
	codec.Unmarshal("", restore)
	assert.Equal(t, RestoreResultFailed, restore.Kind)
	codec.Unmarshal("kind=success&restored_count=3", restore)
	assert.EqualValues(t, &RestoreResult{Kind: RestoreResultSuccess, RestoredCount: 3}, restore)
}

func TestRestore_RoundTrip(t *testing.T) {
	request := NewRestoreRequest()
	actual := &RestoreRequest{}
	codec.Unmarshal(codec.Marshal(request), actual)
	assert.EqualValues(t, request, actual)

	failed := RestoreFailed(RestoreTimeout)
	actualResult := &RestoreResult{}
	codec.Unmarshal(codec.Marshal(failed), actualResult)
	assert.EqualValues(t, failed, actualResult)
}

func TestFlowDismissed_RoundTrip(t *testing.T) {
	dismissed := &FlowDismissed{FlowID: "f", Reason: "user", ScreenID: "s&1"}
	actual := &FlowDismissed{}
	codec.Unmarshal(codec.Marshal(dismissed), actual)
	assert.EqualValues(t, dismissed, actual)
}

func TestConfigureOptions_KeepsExtra(t *testing.T) {
	options := &ConfigureOptions{}
	codec.Unmarshal("api_endpoint=https%3A%2F%2Fapi.example.com&debug=1&region=eu", options)
	assert.Equal(t, "https://api.example.com", options.APIEndpoint)
	assert.True(t, options.Debug)
	assert.Equal(t, map[string]string{"region": "eu"}, options.Extra)

	encoded := options.EncodePayload()
	assert.Equal(t, "eu", encoded.Get("region"))
	assert.Equal(t, "1", encoded.Get("debug"))
	assert.False(t, encoded.Has("wrapper_version"))
}

func TestTriggerOptions_RoundTrip(t *testing.T) {
	options := &TriggerOptions{
		Properties:     map[string]string{"screen": "home", "q": "a&b=c"},
		UserProperties: map[string]string{"plan": "free"},
	}
	actual := &TriggerOptions{}
	codec.Unmarshal(codec.Marshal(options), actual)
	assert.EqualValues(t, options, actual)
	assert.Nil(t, Properties(""))
}

func TestAsError(t *testing.T) {
	providerErr := NewError(CodeNativeUnavailable, "unsupported")
	require.Same(t, providerErr, AsError(providerErr))
	wrapped := AsError(errors.New("io"))
	assert.Equal(t, CodeNativeError, wrapped.Code)
	assert.Equal(t, "io", wrapped.Message)
	assert.Nil(t, AsError(nil))
	assert.Equal(t, "NATIVE_UNAVAILABLE: unsupported", providerErr.Error())
}

func intPtr(v int) *int {
	return &v
}
