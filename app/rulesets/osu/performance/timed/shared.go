package timed

import (
	"context"
	"fmt"
	"sync"

	"github.com/Givikap120/danser-livepp/app/beatmap/difficulty"
	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/api"
	"golang.org/x/sync/singleflight"
)

// SharedProvider merges concurrent computations of the same request, so estimators
// attached to one session compute their attributes once.
// A merged computation is cancelled only after every caller waiting on it has gone away.
type SharedProvider struct {
	inner Provider
	group singleflight.Group

	mutex   sync.Mutex
	flights map[string]*flight
}

// flight is the context of one merged computation, refs counts the callers still waiting on it
type flight struct {
	ctx    context.Context
	cancel context.CancelFunc
	refs   int
}

func NewSharedProvider(inner Provider) *SharedProvider {
	return &SharedProvider{
		inner:   inner,
		flights: make(map[string]*flight),
	}
}

func (p *SharedProvider) ComputeTimed(ctx context.Context, req Request) ([]api.TimedAttributes, error) {
	key := requestKey(req)

	f := p.join(ctx, key)
	defer p.leave(key, f)

	ch := p.group.DoChan(key, func() (any, error) {
		return p.inner.ComputeTimed(f.ctx, req)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.([]api.TimedAttributes), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *SharedProvider) join(ctx context.Context, key string) *flight {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	f := p.flights[key]
	if f == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		p.flights[key] = f
	}

	f.refs++

	return f
}

func (p *SharedProvider) leave(key string, f *flight) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	f.refs--
	if f.refs > 0 {
		return
	}

	f.cancel()

	if p.flights[key] == f {
		delete(p.flights, key)
	}

	// a computation being cancelled must not be joined by later callers
	p.group.Forget(key)
}

func requestKey(req Request) string {
	var mods difficulty.Modifier
	if req.Diff != nil {
		mods = req.Diff.Mods
	}

	return fmt.Sprintf("%p|%s|%d", req.BeatMap, req.Ruleset, mods)
}
