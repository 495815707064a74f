package auth

import (
	"os"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface so every
// component can share the process-wide structured logger.
type ZerologLogger struct {
	log zerolog.Logger
}

var _ Logger = (*ZerologLogger)(nil)

// NewZerologLogger builds a JSON logger on stdout tagged with a role label.
func NewZerologLogger(role string) *ZerologLogger {
	logger := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()

	return &ZerologLogger{log: logger}
}

// WrapZerolog adapts an existing zerolog.Logger.
func WrapZerolog(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

func (l *ZerologLogger) Debug(msg string, args ...any) {
	emit(l.log.Debug(), msg, args)
}

func (l *ZerologLogger) Info(msg string, args ...any) {
	emit(l.log.Info(), msg, args)
}

func (l *ZerologLogger) Error(msg string, args ...any) {
	emit(l.log.Error(), msg, args)
}

// emit treats args as alternating key/value pairs, the way call sites in this
// package pass them; anything that does not fit lands in a catch-all field.
func emit(event *zerolog.Event, msg string, args []any) {
	i := 0
	for ; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			break
		}
		event = event.Interface(key, args[i+1])
	}
	if i < len(args) {
		event = event.Interface("args", args[i:])
	}
	event.Msg(msg)
}
