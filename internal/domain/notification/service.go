package notification

import (
	"context"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/sse"
)

// Sink receives attendance events. Emit must not block the caller for long;
// callers log and drop any error it returns.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// Remote carries encoded events between instances.
type Remote interface {
	Publish(ctx context.Context, payload []byte) error
}

// Service is the dashboard notification pipeline.
type Service interface {
	Sink

	// Subscribe streams a company's dashboard events until cleanup is called.
	Subscribe(companyID string) (<-chan sse.Event, func())

	// Deliver publishes an encoded event received from another instance to
	// local subscribers.
	Deliver(payload []byte)

	// Stop drains the queue and stops the workers.
	Stop()
}
