package ai

import (
	"context"
	"errors"
)

type FallbackProvider struct {
	primary   Provider
	secondary Provider
}

func NewFallback(p1, p2 Provider) *FallbackProvider {
	return &FallbackProvider{
		primary:   p1,
		secondary: p2,
	}
}

func (f *FallbackProvider) Review(
	ctx context.Context,
	r ReviewRequest,
) (ReviewResponse, error) {

	resp, err := f.primary.Review(ctx, r)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return ReviewResponse{}, err
	}

	resp, err2 := f.secondary.Review(ctx, r)
	if err2 != nil {
		return ReviewResponse{}, errors.Join(err, err2)
	}
	return resp, nil
}
