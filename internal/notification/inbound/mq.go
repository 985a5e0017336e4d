package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/coursebell/internal/pkg/config"
	"github.com/shandysiswandi/coursebell/internal/pkg/goroutine"
	"github.com/shandysiswandi/coursebell/internal/pkg/instrument"
	"github.com/shandysiswandi/coursebell/internal/pkg/messaging"
	"github.com/shandysiswandi/coursebell/internal/pkg/router"
	"github.com/shandysiswandi/coursebell/internal/pkg/uid"
	"github.com/shandysiswandi/coursebell/internal/pkg/validator"
	"github.com/shandysiswandi/coursebell/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	v validator.Validator,
	admin *router.Router,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, validator: v, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	concurrency := cfg.GetInt("modules.notification.consumer_concurrency")
	if concurrency <= 0 {
		concurrency = 10
	}

	// Each consumer name doubles as its broker subscription name.
	consumers := []struct {
		name        string
		topic       string
		concurrency int
		handler     messaging.Handler
	}{
		{
			name:        event.LMSEventDestinationConsumerNotification,
			topic:       event.LMSEventDestination,
			concurrency: concurrency,
			handler:     mqHandler.LMSEvent,
		},
		{
			name:        event.NotificationProcessConsumerNotification,
			topic:       event.NotificationProcessDestination,
			concurrency: 1,
			handler:     mqHandler.ProcessQueue,
		},
		{
			name:        event.NotificationAdminConsumerNotification,
			topic:       event.NotificationAdminDestination,
			concurrency: 1,
			handler:     admin.Consumer(messenger, uuid),
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, consumer.name, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithConsumerName(consumer.name),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(consumer.concurrency),
					messaging.WithMaxInFlight(consumer.concurrency),
				)
			})
		}
	}
}
