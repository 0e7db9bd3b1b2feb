package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// defaultPushInterval intervalo de envío de los websockets
const defaultPushInterval = 10 * time.Second

// WebSocketUpgrader configuración para WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Permitir todas las conexiones para desarrollo
	},
}

// streamJSON envía produce() al conectar y luego cada interval, hasta que el cliente cierra
func streamJSON(c *gin.Context, logger *zap.Logger, interval time.Duration, produce func(ctx context.Context) (interface{}, error)) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Error actualizando a WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("Conexión WebSocket establecida")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Lectura en segundo plano para detectar el cierre del cliente
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() bool {
		payload, err := produce(c.Request.Context())
		if err != nil {
			logger.Error("Error generando payload de WebSocket", zap.Error(err))
			payload = gin.H{"success": false, "error": err.Error()}
		}
		if err := conn.WriteJSON(payload); err != nil {
			logger.Debug("Error enviando por WebSocket", zap.Error(err))
			return false
		}
		return true
	}

	if !send() {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !send() {
				return
			}
		case <-closed:
			logger.Info("Conexión WebSocket cerrada por el cliente")
			return
		case <-c.Request.Context().Done():
			logger.Info("Conexión WebSocket cerrada por contexto")
			return
		}
	}
}
