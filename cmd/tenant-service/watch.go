package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/applicationmaker/tenant-service/internal/tenant"
)

type subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// watchEvents writes one line per tenant event until ctx is done or the
// subscription closes.
func watchEvents(ctx context.Context, sub subscriber, out io.Writer) error {
	msgs, unsubscribe, err := sub.Subscribe(ctx, tenant.EventsChannel)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-msgs:
			if !ok {
				return nil
			}

			var evt tenant.CreatedEvent
			if err := json.Unmarshal(payload, &evt); err != nil {
				log.Warn().Err(err).Msg("watch: skipping malformed event")
				continue
			}

			tenantDomain := "-"
			if evt.Tenant.Domain != nil {
				tenantDomain = *evt.Tenant.Domain
			}
			fmt.Fprintf(out, "%s id=%d name=%q domain=%s created=%s\n",
				evt.Type, evt.Tenant.ID, evt.Tenant.Name, tenantDomain, evt.Tenant.CreatedAt.Format("2006-01-02T15:04:05.000000Z07:00"))
		}
	}
}
