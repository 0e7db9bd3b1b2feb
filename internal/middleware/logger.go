package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestIDKey = "request_id"

// LoggerMiddleware escribe una línea de consola por request y el mismo evento en zap.
// Las rutas en skipPaths (health, scrape de Prometheus) no se loguean.
func LoggerMiddleware(logger *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: skipPaths,
		Formatter: func(param gin.LogFormatterParams) string {
			requestID, _ := param.Keys[requestIDKey].(string)

			logger.Log(levelFor(param.StatusCode), "HTTP Request",
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status_code", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
				zap.Int("body_size", param.BodySize),
				zap.String("request_id", requestID),
				zap.String("error", param.ErrorMessage),
			)

			return fmt.Sprintf("%s %s %-7s %s %s %6dms %s %s\n",
				param.TimeStamp.Format("2006/01/02 - 15:04:05"),
				getStatusColor(param.StatusCode)+fmt.Sprintf("%d", param.StatusCode)+resetColor,
				getMethodColor(param.Method)+param.Method+resetColor,
				param.Path,
				param.Request.Proto,
				param.Latency.Milliseconds(),
				param.ClientIP,
				requestID,
			)
		},
	})
}

// levelFor errores de servidor como Error, de cliente como Warn, el resto en Debug
func levelFor(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	default:
		return zapcore.DebugLevel
	}
}

// RequestIDMiddleware propaga X-Request-ID o genera uno nuevo
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Header("X-Request-ID", requestID)
		c.Set(requestIDKey, requestID)
		c.Next()
	}
}

func getStatusColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return greenColor
	case statusCode >= 300 && statusCode < 400:
		return cyanColor
	case statusCode >= 400 && statusCode < 500:
		return yellowColor
	case statusCode >= 500:
		return redColor
	default:
		return whiteColor
	}
}

func getMethodColor(method string) string {
	switch method {
	case "GET":
		return greenColor
	case "POST":
		return blueColor
	case "PUT":
		return yellowColor
	case "DELETE":
		return redColor
	case "PATCH":
		return magentaColor
	default:
		return whiteColor
	}
}

func generateRequestID() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}
