package notify

import (
	"context"
	"errors"
	"log/slog"

	"ShelterScanner/internal/domain"
	"ShelterScanner/internal/ports"
)

// LogNotifier writes alerts to the log. It is the fallback when no delivery
// channel is configured.
type LogNotifier struct {
	log *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

// NewLogNotifier wraps a logger.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log.With("component", "notifier.log")}
}

// Notify logs the alert and never fails.
func (n *LogNotifier) Notify(_ context.Context, emails []string, record domain.PetRecord) error {
	n.log.Info("critical alert",
		"pet_id", record.ID,
		"subject", Subject(record),
		"recipients", emails)
	return nil
}

// Multi fans an alert out to several channels. Every channel is tried; the
// failures are joined.
type Multi []ports.Notifier

var _ ports.Notifier = Multi(nil)

// Notify delivers through every channel.
func (m Multi) Notify(ctx context.Context, emails []string, record domain.PetRecord) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, emails, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
