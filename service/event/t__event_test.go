package event

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mintfolio/go-marketplace/service/market"
	"github.com/mintfolio/go-marketplace/service/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	calls int
}

func (h *countingHandler) Handle(ctx context.Context, evt market.Event) error {
	h.calls++
	return nil
}

type failingHandler struct{}

func (failingHandler) Handle(ctx context.Context, evt market.Event) error {
	return errors.New("handler down")
}

func TestDispatcher_RoutesByType(t *testing.T) {
	assert := assert.New(t)

	d := NewDispatcher()
	sales := &countingHandler{}
	transfers := &countingHandler{}
	d.AddHandler(market.EventTypeSale, sales)
	d.AddHandler(market.EventTypeTransfer, transfers)

	ctx := context.Background()
	d.Handle(ctx, market.Event{Type: market.EventTypeSale, TokenID: 1})
	d.Handle(ctx, market.Event{Type: market.EventTypeSale, TokenID: 2})
	d.Handle(ctx, market.Event{Type: market.EventTypeMinted, TokenID: 3})

	assert.Equal(2, sales.calls)
	assert.Equal(0, transfers.calls)
}

func TestDispatcher_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	d := NewDispatcher()
	counted := &countingHandler{}
	d.AddHandler(market.EventTypeSale, failingHandler{}, counted)

	d.Handle(context.Background(), market.Event{Type: market.EventTypeSale, TokenID: 1})

	assert.Equal(t, 1, counted.calls)
}

func TestWebhookHandler_PostsEventJSON(t *testing.T) {
	assert := assert.New(t)

	var received market.Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	evt := market.Event{
		ID:      persist.GenerateID(),
		Type:    market.EventTypeSale,
		TokenID: persist.TokenID(7),
		From:    persist.NewAddress("0x456d569592f15af845d0dbe984c12bab8f430e31"),
		To:      persist.NewAddress("0x9a3f9764b21adaf3c6fdf6f947e6d3340a3f8ac5"),
		Amount:  big.NewInt(10000),
	}

	err := NewWebhookHandler(srv.URL).Handle(context.Background(), evt)
	assert.NoError(err)
	assert.Equal(evt.ID, received.ID)
	assert.Equal(evt.Type, received.Type)
	assert.Equal(evt.TokenID, received.TokenID)
	assert.Zero(evt.Amount.Cmp(received.Amount))
}

func TestWebhookHandler_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhookHandler(srv.URL).Handle(context.Background(), market.Event{Type: market.EventTypeSale})
	assert.Error(t, err)
}
