package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/saeid-a/FitProBack/internal/models"
)

func newTestChatService(messages *stubMessageStore) (*ChatService, *recordingPublisher) {
	publisher := &recordingPublisher{}
	profiles := newStubProfileStore(profileRecord("coach", models.RoleCoach), profileRecord("trainee", models.RoleTrainee))
	return NewChatService(messages, profiles, publisher), publisher
}

func TestSendPublishesStoredMessage(t *testing.T) {
	messages := &stubMessageStore{}
	svc, publisher := newTestChatService(messages)
	clientID := uuid.NewString()

	msg, err := svc.Send(context.Background(), "trainee", SendMessageInput{
		ReceiverID: "coach",
		Text:       "  Done with today's session  ",
		ClientID:   clientID,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID != "msg-1" || msg.ClientID != clientID || msg.Text != "Done with today's session" {
		t.Fatalf("unexpected stored message %+v", msg)
	}
	if len(publisher.published) != 1 || publisher.published[0].ClientID != clientID {
		t.Fatalf("expected one push with the client id, got %+v", publisher.published)
	}
}

func TestSendGeneratesMissingClientID(t *testing.T) {
	messages := &stubMessageStore{}
	svc, _ := newTestChatService(messages)

	msg, err := svc.Send(context.Background(), "coach", SendMessageInput{ReceiverID: "trainee", Text: "hi"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := uuid.Parse(msg.ClientID); err != nil {
		t.Fatalf("expected generated uuid client id, got %q", msg.ClientID)
	}
}

func TestSendValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   SendMessageInput
		wantErr error
	}{
		{name: "blank text", input: SendMessageInput{ReceiverID: "coach", Text: "   "}, wantErr: ErrInvalidInput},
		{name: "too long", input: SendMessageInput{ReceiverID: "coach", Text: strings.Repeat("x", maxMessageLength+1)}, wantErr: ErrInvalidInput},
		{name: "to self", input: SendMessageInput{ReceiverID: "trainee", Text: "hi"}, wantErr: ErrInvalidInput},
		{name: "malformed client id", input: SendMessageInput{ReceiverID: "coach", Text: "hi", ClientID: "temp-1"}, wantErr: ErrInvalidInput},
		{name: "unknown receiver", input: SendMessageInput{ReceiverID: "ghost", Text: "hi"}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &stubMessageStore{}
			svc, publisher := newTestChatService(messages)

			if _, err := svc.Send(context.Background(), "trainee", tt.input); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(messages.created) != 0 || len(publisher.published) != 0 {
				t.Fatal("rejected messages must not be stored or pushed")
			}
		})
	}
}

func TestSendStoreFailureIsNotPublished(t *testing.T) {
	messages := &stubMessageStore{createErr: errStubFailure}
	svc, publisher := newTestChatService(messages)

	if _, err := svc.Send(context.Background(), "trainee", SendMessageInput{ReceiverID: "coach", Text: "hi"}); !errors.Is(err, errStubFailure) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatal("failed sends must not be pushed")
	}
}

func TestHistoryMarksIncomingRead(t *testing.T) {
	messages := &stubMessageStore{messages: []models.DirectMessage{
		{ID: "1", SenderID: "coach", ReceiverID: "trainee", Text: "hello"},
		{ID: "2", SenderID: "trainee", ReceiverID: "coach", Text: "hi"},
	}}
	svc, _ := newTestChatService(messages)

	history := svc.History(context.Background(), "trainee", "coach")
	if len(history) != 2 || !history[0].IsRead || history[1].IsRead {
		t.Fatalf("expected only the incoming message marked read, got %+v", history)
	}
	if len(messages.markedFor) != 1 || messages.markedFor[0] != "trainee<-coach" {
		t.Fatalf("expected one mark-read call, got %v", messages.markedFor)
	}
}

func TestHistoryFailingReadIsEmpty(t *testing.T) {
	svc, _ := newTestChatService(&stubMessageStore{listErr: errStubFailure})

	history := svc.History(context.Background(), "trainee", "coach")
	if history == nil || len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
}
