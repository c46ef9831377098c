package logger

import (
	"Bandwall/internal/api/config"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupGin(r *gin.Engine, cfg config.LogConfig) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/ping"},
		Formatter: func(p gin.LogFormatterParams) string {
			var traceID string
			if p.Keys != nil {
				if id, ok := p.Keys[TraceIDKey].(string); ok {
					traceID = id
				}
			}

			if traceID == "" && p.Request != nil {
				traceID = TraceID(p.Request.Context())
			}

			return fmt.Sprintf(
				`{"time":"%s","level":"INFO","msg":"GIN_ACCESS","trace_id":"%s","log_token":"%s","target_index":"%s","method":"%s","path":"%s","status":%d,"latency":"%v","client_ip":"%s","body_size":%d}`+"\n",
				p.TimeStamp.Format(time.RFC3339),
				traceID,
				cfg.LogstashToken,
				cfg.LogstashIndex,
				p.Method,
				p.Path,
				p.StatusCode,
				p.Latency,
				p.ClientIP,
				p.BodySize,
			)
		},
	}))

	r.Use(gin.Recovery())
}
