package sdk

import (
	"context"
	"sync"

	sdkerrors "github.com/govkit/govsync/sdk/errors"
)

// PartialReads tallies the units skipped during one synchronization pass.
type PartialReads struct {
	mu   sync.Mutex
	errs []*sdkerrors.PartialReadError
}

func (p *PartialReads) add(err *sdkerrors.PartialReadError) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.errs = append(p.errs, err)
}

func (p *PartialReads) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.errs)
}

func (p *PartialReads) Errors() []*sdkerrors.PartialReadError {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*sdkerrors.PartialReadError, len(p.errs))
	copy(out, p.errs)

	return out
}

type partialReadsKey struct{}

// WithPartialReads returns a copy of ctx whose skipped units are recorded in p.
func WithPartialReads(ctx context.Context, p *PartialReads) context.Context {
	return context.WithValue(ctx, partialReadsKey{}, p)
}

// SkipUnit logs a unit that an aggregate read gives up on and records it in
// the tally carried by ctx, if any.
func SkipUnit(ctx context.Context, component, unit string, err error) *sdkerrors.PartialReadError {
	skipped := sdkerrors.NewPartialReadError(component, unit, err)
	LoggerFrom(ctx).Warnf("%v", skipped)

	if p, ok := ctx.Value(partialReadsKey{}).(*PartialReads); ok && p != nil {
		p.add(skipped)
	}

	return skipped
}
