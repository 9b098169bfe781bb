package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"storefront/api/middleware"
	"storefront/api/responses"
	"storefront/internal/orders"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens via the bearer token before the upgrade.
		return true
	},
}

type streamMessage struct {
	Type    string           `json:"type"`
	OrderID string           `json:"order_id"`
	Order   *orders.OrderDTO `json:"order,omitempty"`
	At      time.Time        `json:"at"`
}

// OrderStream pushes live order change events over a websocket. The
// customer variant is scoped to the caller's own orders; the admin
// variant sees every order.
func OrderStream(svc orders.Service, adminScope bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filter := orders.Filter{}
		if !adminScope {
			userID := middleware.UserIDFromContext(r.Context())
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
				return
			}
			filter.UserID = userID
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure.
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "upgrade_error", err.Error()), "stream.upgrade_failed")
			}
			return
		}
		defer conn.Close()

		events, cancel := svc.Subscribe(filter)
		defer cancel()

		// Read pump: discard client frames, unblock on disconnect.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, readErr := conn.ReadMessage(); readErr != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(streamPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-r.Context().Done():
				return
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case event, open := <-events:
				if !open {
					return
				}
				msg := streamMessage{
					Type:    string(event.Type),
					OrderID: event.OrderID,
					At:      event.At,
				}
				if event.Order != nil {
					msg.Order = svc.Render(event.Order)
				}
				payload, marshalErr := json.Marshal(msg)
				if marshalErr != nil {
					if logg != nil {
						logg.Error(r.Context(), "stream.marshal_event", marshalErr)
					}
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			}
		}
	}
}
