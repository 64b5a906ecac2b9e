package inbound

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/shandysiswandi/gosocial/internal/notification/entity"
	"github.com/shandysiswandi/gosocial/internal/notification/usecase"
	"github.com/shandysiswandi/gosocial/internal/pkg/hash"
	"github.com/shandysiswandi/gosocial/internal/pkg/idempotency"
	"github.com/shandysiswandi/gosocial/internal/pkg/instrument"
	"github.com/shandysiswandi/gosocial/internal/pkg/messaging"
	"github.com/shandysiswandi/gosocial/internal/shared/event"
)

type memIdempotency struct {
	mu   sync.Mutex
	done map[string]error
}

func (m *memIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	m.mu.Lock()
	if prev, ok := m.done[key]; ok {
		m.mu.Unlock()
		if prev != nil {
			return idempotency.ErrFailed
		}
		return idempotency.ErrCompleted
	}
	m.mu.Unlock()

	err := fn(ctx)
	m.mu.Lock()
	m.done[key] = err
	m.mu.Unlock()
	return err
}

type recordingUsecase struct {
	ok    bool
	calls []usecase.SendEmailInput
	cIDs  []string
}

func (r *recordingUsecase) SendEmail(ctx context.Context, in usecase.SendEmailInput) bool {
	r.calls = append(r.calls, in)
	r.cIDs = append(r.cIDs, instrument.GetCorrelationID(ctx))
	return r.ok
}

type fixedUUID string

func (f fixedUUID) Generate() string { return string(f) }

func newHandler(uc *recordingUsecase) *MQHandler {
	return &MQHandler{
		uc:   uc,
		idem: &memIdempotency{done: map[string]error{}},
		keys: hash.NewHMACSHA256("test-secret"),
		uuid: fixedUUID("generated"),
		ins:  instrument.NewNoop(),
	}
}

func emailMessage(t *testing.T, id string, p event.EmailMessage) *messaging.Message {
	t.Helper()
	body, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return &messaging.Message{ID: id, Topic: event.NotificationEmailTopic, Body: body}
}

func TestEmailNotification_OncePerMessage(t *testing.T) {
	// Arrange
	uc := &recordingUsecase{ok: true}
	h := newHandler(uc)
	msg := emailMessage(t, "m-1", event.EmailMessage{Kind: event.EmailKindOTP, To: "a@example.com", Purpose: "two_factor", Code: "9911"})
	msg.SetHeader(event.HeaderCorrelationID, "cid-42")

	// Act
	for range 3 {
		if err := h.EmailNotification(context.Background(), msg); err != nil {
			t.Fatalf("EmailNotification() error = %v", err)
		}
	}

	// Assert
	if len(uc.calls) != 1 {
		t.Fatalf("SendEmail calls = %d, want 1", len(uc.calls))
	}
	got := uc.calls[0]
	if got.Kind != entity.KindOTP || got.Code != "9911" || got.Purpose != "two_factor" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if uc.cIDs[0] != "cid-42" {
		t.Fatalf("correlation id = %q, want cid-42", uc.cIDs[0])
	}
}

func TestEmailNotification_NeverAsksForRedelivery(t *testing.T) {
	uc := &recordingUsecase{ok: false}
	h := newHandler(uc)

	bad := &messaging.Message{ID: "m-bad", Body: []byte("{not json")}
	if err := h.EmailNotification(context.Background(), bad); err != nil {
		t.Fatalf("EmailNotification() malformed error = %v", err)
	}
	if len(uc.calls) != 0 {
		t.Fatalf("malformed message reached the usecase")
	}

	msg := emailMessage(t, "m-2", event.EmailMessage{Kind: event.EmailKindProfileViews, To: "a@example.com"})
	if err := h.EmailNotification(context.Background(), msg); err != nil {
		t.Fatalf("EmailNotification() failed send error = %v", err)
	}
	if err := h.EmailNotification(context.Background(), msg); err != nil {
		t.Fatalf("EmailNotification() redelivery error = %v", err)
	}
	if len(uc.calls) != 1 {
		t.Fatalf("SendEmail calls = %d, want 1", len(uc.calls))
	}
	if uc.cIDs[0] != "generated" {
		t.Fatalf("correlation id = %q, want generated", uc.cIDs[0])
	}
}
