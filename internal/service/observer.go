package service

import (
	"context"
	"sync"

	"assetview/internal/view"
)

// Observer follows one id at a time, the way a single open detail view does.
// Re-keying leaves the old query running for other observers but Wait stops
// reporting it.
type Observer struct {
	svc *AssetDetailService

	mu      sync.Mutex
	id      string
	changed chan struct{}
}

func (s *AssetDetailService) Observe() *Observer {
	return &Observer{svc: s, changed: make(chan struct{})}
}

func (o *Observer) ID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.id
}

// SetID switches the observer to id and starts or joins its query.
func (o *Observer) SetID(id string) view.LoadState {
	o.mu.Lock()
	if id != o.id {
		o.id = id
		close(o.changed)
		o.changed = make(chan struct{})
	}
	o.mu.Unlock()

	return o.svc.Query(id)
}

// Wait blocks until the query for the current id settles or ctx ends. A
// result for an id that was replaced while waiting is never returned.
func (o *Observer) Wait(ctx context.Context) view.LoadState {
	for {
		o.mu.Lock()
		id, changed := o.id, o.changed
		o.mu.Unlock()

		loadCtx, cancel := context.WithCancel(ctx)
		go func() {
			select {
			case <-changed:
				cancel()
			case <-loadCtx.Done():
			}
		}()
		state := o.svc.Load(loadCtx, id)
		cancel()

		if o.ID() == id {
			return state
		}
		if ctx.Err() != nil {
			return o.svc.State(o.ID())
		}
	}
}
