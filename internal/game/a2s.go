// Package game provides functionality to query game servers using the Source Engine Query (A2S) protocol.
package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/woozymasta/a2s/pkg/a2s"
	"github.com/woozymasta/seplayers/internal/config"
	"golang.org/x/sync/errgroup"
)

// Querier fetches live data from a game server.
type Querier interface {
	Players(ctx context.Context, target Target) (*State, error)
	Status(ctx context.Context, target Target) (*Status, error)
}

// A2SQuerier talks to the target over UDP with a fresh client per query.
type A2SQuerier struct {
	options config.A2S
}

// NewA2SQuerier returns a Querier using the given A2S options.
func NewA2SQuerier(options config.A2S) *A2SQuerier {
	return &A2SQuerier{options: options}
}

// Players requests A2S_PLAYER from the target.
func (q *A2SQuerier) Players(ctx context.Context, target Target) (*State, error) {
	if _, err := ParseProtocol(string(target.Protocol)); err != nil {
		return nil, err
	}

	players, err := await(ctx, func() ([]json.RawMessage, error) {
		return q.queryPlayers(target)
	})
	if err != nil {
		return nil, err
	}

	return &State{Players: players}, nil
}

// Status requests A2S_INFO and A2S_PLAYER from the target concurrently.
func (q *A2SQuerier) Status(ctx context.Context, target Target) (*Status, error) {
	if _, err := ParseProtocol(string(target.Protocol)); err != nil {
		return nil, err
	}

	var (
		summary Summary
		players []json.RawMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = await(gctx, func() (Summary, error) {
			return q.queryInfo(target)
		})
		return err
	})
	g.Go(func() error {
		var err error
		players, err = await(gctx, func() ([]json.RawMessage, error) {
			return q.queryPlayers(target)
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Status{Server: summary, Players: players, Online: len(players)}, nil
}

func (q *A2SQuerier) queryInfo(target Target) (Summary, error) {
	client, err := a2s.New(target.Host, target.Port)
	if err != nil {
		return Summary{}, err
	}
	defer func() { _ = client.Close() }()
	q.apply(&client.BufferSize, &client.Timeout)

	info, err := client.GetInfo()
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Name:       info.Name,
		Map:        info.Map,
		Game:       info.Game,
		Version:    info.Version,
		OS:         info.Environment.String(),
		Players:    info.Players,
		MaxPlayers: info.MaxPlayers,
	}, nil
}

func (q *A2SQuerier) queryPlayers(target Target) ([]json.RawMessage, error) {
	client, err := a2s.New(target.Host, target.Port)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()
	q.apply(&client.BufferSize, &client.Timeout)

	players, err := client.GetPlayers()
	if err != nil {
		return nil, err
	}

	records, err := decodePlayers(players)
	if err != nil {
		return nil, err
	}

	// A valid A2S_PLAYER reply always carries a list, even with zero entries
	if records == nil {
		records = []json.RawMessage{}
	}

	return records, nil
}

// apply overrides client settings; the timeout only when configured.
func (q *A2SQuerier) apply(bufferSize *uint16, timeout *time.Duration) {
	if q.options.BufferSize > 0 {
		*bufferSize = q.options.BufferSize
	}
	if q.options.Timeout > 0 {
		*timeout = q.options.Timeout
	}
}

// await runs a blocking query and gives up when ctx is done.
// The query goroutine still finishes on its own and its result is dropped.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	done := make(chan result, 1)
	go func() {
		val, err := fn()
		done <- result{val: val, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-done:
		return res.val, res.err
	}
}
