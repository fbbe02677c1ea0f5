package event

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mintfolio/go-marketplace/service/logger"
	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Handler receives committed ledger events of the types it registered for
type Handler interface {
	Handle(ctx context.Context, evt market.Event) error
}

// Dispatcher routes ledger events to per-type handlers. It implements
// market.Listener so it can be attached straight to the ledger; handler
// errors are logged and dropped, since the state change they describe has
// already committed.
type Dispatcher struct {
	handlers map[market.EventType][]Handler
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[market.EventType][]Handler{}}
}

// AddHandler registers handlers for an event type
func (d *Dispatcher) AddHandler(typ market.EventType, handlers ...Handler) {
	d.handlers[typ] = append(d.handlers[typ], handlers...)
}

// Handle implements market.Listener
func (d *Dispatcher) Handle(ctx context.Context, evt market.Event) {
	for _, h := range d.handlers[evt.Type] {
		if err := h.Handle(ctx, evt); err != nil {
			logger.For(ctx).WithError(err).WithFields(logrus.Fields{
				"eventID":   evt.ID,
				"eventType": evt.Type,
				"tokenID":   evt.TokenID,
			}).Error("event handler failed")
		}
	}
}

// LogHandler writes every event to the structured log
type LogHandler struct{}

// Handle implements Handler
func (LogHandler) Handle(ctx context.Context, evt market.Event) error {
	logger.For(ctx).WithFields(logrus.Fields{
		"eventID":   evt.ID,
		"eventType": evt.Type,
		"tokenID":   evt.TokenID,
		"from":      evt.From,
		"to":        evt.To,
	}).Info("ledger event")
	return nil
}

// WebhookHandler mirrors events to the external indexer over HTTP so the
// storefront's database can follow ledger state without re-deriving it
type WebhookHandler struct {
	url    string
	client *http.Client
}

// NewWebhookHandler creates a handler posting events to the given URL
func NewWebhookHandler(url string) *WebhookHandler {
	return &WebhookHandler{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Handle implements Handler
func (w *WebhookHandler) Handle(ctx context.Context, evt market.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "marshalling event")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building indexer request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting event to indexer")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("indexer returned status %d for event %s", resp.StatusCode, evt.ID)
	}
	return nil
}
