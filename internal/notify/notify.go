package notify

import (
	"context"
	"log"

	"github.com/arpangb16/Prometheus-travel-planner/internal/kafka"
)

// Notifier surfaces completed searches to the user channel. For now it only
// logs; the event already carries everything a mail/push integration needs.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(ctx context.Context, event kafka.SearchEvent) error {
	source := "provider"
	if event.Fallback {
		source = "fallback"
	}
	log.Printf("search %s completed for user %d: %s %s->%s on %s, %d options (%s)",
		event.Reference, event.UserID, event.SearchType, event.Origin, event.Destination,
		event.DepartureDate.Format("2006-01-02"), event.OptionCount, source)
	return nil
}
