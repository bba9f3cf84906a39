// Package feed is the NeoWs domain service: one feed page per calendar day
// and single-object lookups, each delivered as a Result.
package feed

import (
	"context"
	"errors"
	"time"

	"github.com/neofeed/neofeed/pkg/neo"
)

var (
	// ErrEmptyFeed is reported when a fetch succeeds without a feed.
	ErrEmptyFeed = errors.New("empty feed")
	ErrUnknown   = errors.New("unknown error")
)

// Result carries either a value or the error that replaced it.
type Result[T any] struct {
	Value T
	Err   error
}

// Service is what the view-models depend on. Each call returns a channel that
// yields exactly one Result and is then closed.
type Service interface {
	FetchFeed(ctx context.Context, end time.Time) <-chan Result[*neo.Feed]
	FetchObject(ctx context.Context, id string) <-chan Result[*neo.NearEarthObject]
}

// Await reads the single Result from ch, or returns ctx's error if ctx is
// done first.
func Await[T any](ctx context.Context, ch <-chan Result[T]) Result[T] {
	select {
	case r, ok := <-ch:
		if !ok {
			return Result[T]{Err: ErrUnknown}
		}
		return r
	case <-ctx.Done():
		return Result[T]{Err: ctx.Err()}
	}
}

// async runs fn on its own goroutine and delivers its result on a buffered
// channel, so an abandoned receiver never blocks the sender.
func async[T any](fn func() Result[T]) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		ch <- fn()
	}()
	return ch
}
