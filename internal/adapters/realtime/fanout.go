package realtime

import (
	"context"
	"errors"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

// FanoutPublisher publishes to every wrapped publisher. Local hub
// delivery and the Redis broadcast both see every message; a failure in
// one does not stop the others.
type FanoutPublisher struct {
	targets []ports.ChannelPublisher
}

var _ ports.ChannelPublisher = (*FanoutPublisher)(nil)

func NewFanoutPublisher(targets ...ports.ChannelPublisher) *FanoutPublisher {
	return &FanoutPublisher{targets: targets}
}

func (f *FanoutPublisher) Publish(ctx context.Context, channel, event string, payload any) error {
	var errs []error
	for _, t := range f.targets {
		if err := t.Publish(ctx, channel, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
