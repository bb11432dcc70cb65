package bridge

import (
	"context"

	"github.com/viant/capbridge/schema"
)

// Identify associates the session with distinctID. Both property arguments are flat payloads.
func (b *Bridge) Identify(ctx context.Context, distinctID, properties, setOnce string) error {
	p, err := b.session()
	if err != nil {
		return err
	}
	return p.Identify(ctx, distinctID, schema.Properties(properties), schema.Properties(setOnce))
}

func (b *Bridge) Reset(ctx context.Context, keepAnonymousID bool) error {
	p, err := b.session()
	if err != nil {
		return err
	}
	return p.Reset(ctx, keepAnonymousID)
}

func (b *Bridge) DistinctID(ctx context.Context) (string, error) {
	p, err := b.session()
	if err != nil {
		return "", err
	}
	return p.DistinctID(ctx)
}

func (b *Bridge) AnonymousID(ctx context.Context) (string, error) {
	p, err := b.session()
	if err != nil {
		return "", err
	}
	return p.AnonymousID(ctx)
}

func (b *Bridge) IsIdentified(ctx context.Context) (bool, error) {
	p, err := b.session()
	if err != nil {
		return false, err
	}
	return p.IsIdentified(ctx)
}

// Identity returns all identity getters at once.
func (b *Bridge) Identity(ctx context.Context) (*schema.Identity, error) {
	p, err := b.session()
	if err != nil {
		return nil, err
	}
	ret := &schema.Identity{}
	if ret.DistinctID, err = p.DistinctID(ctx); err != nil {
		return nil, err
	}
	if ret.AnonymousID, err = p.AnonymousID(ctx); err != nil {
		return nil, err
	}
	if ret.IsIdentified, err = p.IsIdentified(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}
