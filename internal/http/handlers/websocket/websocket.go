package websocket

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gasgenie/gasgenie-service/internal/utils/jwt"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	wsClient "github.com/gasgenie/gasgenie-service/internal/websocket"
	"github.com/gorilla/websocket"
)

// Browsers cannot set headers on a WebSocket handshake, so the token comes from the query
// string and any origin is accepted.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EventsHandler streams photos.evicted and storage.near_full events to the token's user
// @Summary Subscribe to storage events
// @Description Upgrade to a WebSocket that receives photos.evicted and storage.near_full events
// @Tags events
// @Param token query string true "JWT"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /ws [get]
func EventsHandler(hub *wsClient.Hub, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			slog.Warn("WebSocket connection attempted without token")
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("token required")))
			return
		}

		userID, err := jwt.ExtractUserIDFromToken(token, jwtSecret)
		if err != nil {
			slog.Warn("WebSocket connection attempted with invalid token", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("invalid token")))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, userID, hub)
		if !hub.RegisterClient(client) {
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			conn.Close()
			return
		}
		client.Start()

		slog.Info("WebSocket connection established", slog.String("user_id", userID))
	}
}
