package screens

import (
	"context"
	"errors"

	"smartcopro-dashboard/internal/filter"
	"smartcopro-dashboard/internal/upstream"
)

// Readings is the manager's meter-reading log screen: entry form, log
// list, inline edit and delete.
type Readings struct {
	client *upstream.Client
}

// NewReadings constructs the screen service.
func NewReadings(client *upstream.Client) (*Readings, error) {
	if client == nil {
		return nil, errors.New("screens: nil upstream client")
	}
	return &Readings{client: client}, nil
}

// Load fetches the readings log. The query narrows by meter reference or
// comment.
func (r *Readings) Load(ctx context.Context, listQuery upstream.ReadingQuery, query string) ([]upstream.Reading, error) {
	readings, err := r.client.ListReadings(ctx, listQuery)
	if err != nil {
		return nil, err
	}
	return filter.Narrow(readings, query, func(reading upstream.Reading) []string {
		return []string{reading.MeterReference, reading.Comment}
	}), nil
}

// Enter records a manual reading. The receipt's AlertGenerated flag
// decides the warning-vs-success toast in the web layer; either way the
// caller refetches the log.
func (r *Readings) Enter(ctx context.Context, entry upstream.ReadingEntry) (upstream.ReadingReceipt, error) {
	if entry.MeterReference == "" || entry.Timestamp == "" {
		return upstream.ReadingReceipt{}, ErrMissingFields
	}
	return r.client.EnterReading(ctx, entry)
}

// Edit patches a logged reading and returns the stored record so the
// caller can patch its local list instead of refetching.
func (r *Readings) Edit(ctx context.Context, id int, value float64, comment string) (upstream.Reading, error) {
	return r.client.UpdateReading(ctx, id, value, comment)
}

// Delete removes a logged reading. Deleting an id that is already gone
// surfaces the upstream not-found error; callers turn it into an error
// toast, never a crash.
func (r *Readings) Delete(ctx context.Context, id int) error {
	return r.client.DeleteReading(ctx, id)
}
