// Package screens holds the view services behind each routed screen. A
// screen loads one or more upstream collections (joined all-or-nothing),
// narrows them with pure text filtering, and issues mutations that the web
// layer turns into toasts and refetches.
package screens

import "context"

// loadAll runs the given fetches concurrently and joins them: the whole
// load fails when any fetch fails, so a partial screen load is treated as
// a failed one.
func loadAll(ctx context.Context, fetches ...func(ctx context.Context) error) error {
	if len(fetches) == 0 {
		return nil
	}
	errs := make(chan error, len(fetches))
	for _, fetch := range fetches {
		go func(fetch func(ctx context.Context) error) {
			errs <- fetch(ctx)
		}(fetch)
	}
	var first error
	for range fetches {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}
