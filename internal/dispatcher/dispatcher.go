// Package dispatcher decides whether an alert is sent and hands it to a notifier.
package dispatcher

import (
	"context"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/strategy"
)

// Dispatcher gates alert events and delivers the worthy ones.
type Dispatcher struct {
	notifier notifier.Notifier
	log      *logrus.Entry
}

// New creates a dispatcher. A nil notifier means every dispatch fails.
func New(n notifier.Notifier, log *logrus.Entry) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{notifier: n, log: log}
}

// Dispatch sends at most one message for evt. Delivery errors are reported in
// the outcome and never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, evt model.AlertEvent, strat strategy.Strategy, recipient string) model.DispatchOutcome {
	entry := d.log.WithFields(logrus.Fields{"symbol": evt.Symbol, "signal": evt.Signal})

	if evt.Signal == model.SignalInsufficientData {
		entry.Debug("alert skipped: insufficient data")
		return model.Skipped(model.SkipInsufficientData)
	}
	if recipient == "" {
		entry.Debug("alert skipped: no recipient")
		return model.Skipped(model.SkipNoRecipient)
	}
	if strat != nil && !strat.AlertWorthy(evt.Signal) {
		entry.Debug("alert skipped: not alert-worthy")
		return model.Skipped(model.SkipNotAlertWorthy)
	}
	if d.notifier == nil {
		return model.Failed("no notifier configured")
	}

	if err := d.notifier.Send(ctx, notifier.FormatSubject(evt), notifier.FormatBody(evt), recipient); err != nil {
		entry.WithError(err).Errorf("%s delivery failed", d.notifier.Name())
		return model.Failed(err.Error())
	}
	entry.Infof("alert sent via %s", d.notifier.Name())
	return model.Sent
}
