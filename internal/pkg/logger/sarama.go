package logger

import (
	"fmt"
	log "log/slog"
	"strings"

	"github.com/IBM/sarama"
)

// SaramaLogger 将 sarama 内部日志转为 debug 级别的 slog
type SaramaLogger struct{}

func (SaramaLogger) Print(v ...interface{}) {
	log.Debug(strings.TrimSpace(fmt.Sprint(v...)), "component", "sarama")
}

func (SaramaLogger) Printf(format string, v ...interface{}) {
	log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "sarama")
}

func (SaramaLogger) Println(v ...interface{}) {
	log.Debug(strings.TrimSpace(fmt.Sprintln(v...)), "component", "sarama")
}

func bindSarama() {
	sarama.Logger = SaramaLogger{}
}
