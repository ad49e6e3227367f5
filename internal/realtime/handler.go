package realtime

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/models"
	"github.com/pokerconnect/backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades authenticated clients onto the hub
type Handler struct {
	hub       *Hub
	jwtSecret string
}

// NewHandler creates a new realtime Handler
func NewHandler(hub *Hub, jwtSecret string) *Handler {
	return &Handler{hub: hub, jwtSecret: jwtSecret}
}

// Serve handles GET /ws?token=<jwt>. Browsers cannot set an Authorization
// header on a WebSocket dial, so the token travels as a query parameter.
func (h *Handler) Serve(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := h.hub.Register(claims.UserID, conn)
	logger.Info("websocket client connected",
		zap.Uint("user_id", claims.UserID), zap.String("client_id", client.ID))
	return nil
}
