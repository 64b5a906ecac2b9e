package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestHandler_MasksAndCorrelates(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), "gosocial", []string{"password", "code"}))
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "login",
		"password", "Secret123",
		"body", `{"email":"a@b.test","code":"0427"}`,
		"email", "a@b.test",
	)

	// Assert
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got["password"] != masked {
		t.Fatalf("password = %v, want masked", got["password"])
	}
	if got["body"] != `{"code":"***","email":"a@b.test"}` {
		t.Fatalf("body = %v", got["body"])
	}
	if got["email"] != "a@b.test" || got["_cID"] != "cid-1" || got["service"] != "gosocial" {
		t.Fatalf("unexpected record: %v", got)
	}
}

func TestHandler_NoCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewJSONHandler(&buf, nil), "", nil))

	logger.Info("hello")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := got["_cID"]; ok {
		t.Fatalf("_cID present without a correlation id")
	}
}
