package noop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/capbridge/schema"
)

func TestProvider(t *testing.T) {
	ctx := context.Background()
	p := New()

	var providerErr *schema.Error
	err := p.Configure(ctx, "key", &schema.ConfigureOptions{}, false, nil)
	require.True(t, errors.As(err, &providerErr))
	assert.Equal(t, schema.CodeNativeUnavailable, providerErr.Code)

	_, err = p.HasFeature(ctx, "f", nil, "")
	assert.Error(t, err)
	assert.Error(t, p.StartTrigger(ctx, "r1", "e", nil))

	anonymousID, err := p.AnonymousID(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, anonymousID)
	distinctID, _ := p.DistinctID(ctx)
	assert.Equal(t, anonymousID, distinctID)
	identified, _ := p.IsIdentified(ctx)
	assert.False(t, identified)
}
