package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestWithRequestID(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Output: &buf})
	is.NoErr(err)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	is.Equal(RequestIDFrom(ctx), "req-42")

	WithRequestID(ctx, log).Info("task created")
	is.NoErr(log.Sync())

	var entry map[string]interface{}
	is.NoErr(json.Unmarshal(buf.Bytes(), &entry))
	is.Equal(entry["request_id"], "req-42")
	is.Equal(entry["msg"], "task created")
	is.True(entry["timestamp"] != nil)
}

func TestNew_LevelFallback(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	log, err := New(Config{Level: "chatty", Output: &buf})
	is.NoErr(err)

	log.Debug("hidden")
	is.Equal(buf.Len(), 0) // unknown level means info

	log.Info("shown")
	is.True(buf.Len() > 0)
}

func TestWithRequestID_NoID(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	log, _ := New(Config{Output: &buf})
	is.Equal(WithRequestID(context.Background(), log), log)
}
