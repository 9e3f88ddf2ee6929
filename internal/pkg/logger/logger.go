package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = newLogger(os.Stdout)
)

// newLogger writes one JSON object per action; the message key is "action".
func newLogger(w io.Writer) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "action"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), zapcore.InfoLevel)
	return zap.New(core)
}

// Init points the action log at w (stdout when nil).
func Init(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	l := newLogger(w)
	mu.Lock()
	old := global
	global = l
	mu.Unlock()
	_ = old.Sync()
}

// Sync flushes buffered entries. Call it before exit.
func Sync() error {
	return current().Sync()
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func fields(details map[string]any, extra ...zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(details)+len(extra))
	for k, v := range details {
		out = append(out, zap.Any(k, v))
	}
	return append(out, extra...)
}

func Info(action string, details map[string]any) {
	current().Info(action, fields(details)...)
}

func InfoWithUser(userID uint64, action string, details map[string]any) {
	current().Info(action, fields(details, zap.Uint64("user_id", userID))...)
}

func Warn(action string, details map[string]any) {
	current().Warn(action, fields(details)...)
}

func Error(action string, err error, details map[string]any) {
	if err == nil {
		current().Error(action, fields(details)...)
		return
	}
	current().Error(action, fields(details, zap.Error(err))...)
}
