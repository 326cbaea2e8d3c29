package notify

import (
	"context"
	"errors"

	"kursbot/internal/alert"
)

// Multi fans one fire out to several notifiers. Every notifier is
// attempted once; errors are joined for the caller to log.
type Multi []alert.Notifier

func (m Multi) Notify(ctx context.Context, fire alert.Fire) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, fire); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
