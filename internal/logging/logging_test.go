package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestAddsRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	baseLogger = zap.New(core)
	sugar = baseLogger.Sugar()

	WithRequest("req-123").Infof("hello")

	logs := recorded.All()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs))
	}

	fields := map[string]interface{}{}
	for _, field := range logs[0].Context {
		if field.Type == zapcore.StringType {
			fields[field.Key] = field.String
		}
	}

	if fields["request_id"] != "req-123" {
		t.Fatalf("expected request_id to be req-123, got %v", fields["request_id"])
	}
}

func TestInitRejectsInvalidLevel(t *testing.T) {
	if err := Init(Config{Level: "nope"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
	if err := Init(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}
