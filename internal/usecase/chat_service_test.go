package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lojabot/backend/internal/domain"
)

// fakeMessageRepository is an in-memory domain.MessageRepository
type fakeMessageRepository struct {
	messages []domain.ChatMessage
	saveErr  error
}

func (f *fakeMessageRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	msg.ID = int64(len(f.messages) + 1)
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepository) ListByUser(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var kept []domain.ChatMessage
	var removed int64
	for _, m := range f.messages {
		if m.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept
	return removed, nil
}

// fakeAssistant is a scripted domain.AssistantClient
type fakeAssistant struct {
	reply string
	err   error
}

func (f *fakeAssistant) Ask(ctx context.Context, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestChatService(repo domain.MessageRepository, assistant domain.AssistantClient) *ChatService {
	catalog := []domain.Product{
		{SKU: "ABC123", Name: "Mouse Gamer RGB", Categories: "perifericos", Image: "https://cdn.example.com/mouse.png"},
		{SKU: "XYZ999", Name: "Teclado Mecanico", Categories: "perifericos"},
	}
	return NewChatService(repo, assistant, NewSearchService(SearchConfig{}), catalog)
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty message", func(t *testing.T) {
		svc := newTestChatService(&fakeMessageRepository{}, nil)
		_, err := svc.HandleMessage(ctx, "u1", "   ")
		if !errors.Is(err, domain.ErrEmptyMessage) {
			t.Errorf("error = %v, want ErrEmptyMessage", err)
		}
	})

	t.Run("assistant reply is post-processed and persisted", func(t *testing.T) {
		repo := &fakeMessageRepository{}
		assistant := &fakeAssistant{reply: "📸 https://x.com/a.png\nAqui está o produto"}
		svc := newTestChatService(repo, assistant)

		reply, err := svc.HandleMessage(ctx, "u1", "quero um mouse")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !reply.IsHTML {
			t.Error("IsHTML = false, want true")
		}
		if !strings.Contains(reply.Response, "/proxy-image?url=https%3A%2F%2Fx.com%2Fa.png") {
			t.Errorf("Response = %q, want proxied image", reply.Response)
		}
		if !strings.Contains(reply.Response, "Aqui está o produto") {
			t.Errorf("Response = %q, want assistant text", reply.Response)
		}

		if len(repo.messages) != 2 {
			t.Fatalf("persisted %d messages, want 2", len(repo.messages))
		}
		if repo.messages[0].Sender != domain.SenderUser || repo.messages[0].Content != "quero um mouse" {
			t.Errorf("user message = %+v", repo.messages[0])
		}
		out := repo.messages[1]
		if out.Sender != domain.SenderAssistant || !out.IsHTML {
			t.Errorf("assistant message = %+v", out)
		}
		if out.ImageURL != "https://x.com/a.png" {
			t.Errorf("ImageURL = %q, want extracted URL", out.ImageURL)
		}
		if out.Timestamp.IsZero() {
			t.Error("assistant message timestamp is zero")
		}
	})

	t.Run("assistant failure degrades to local search", func(t *testing.T) {
		repo := &fakeMessageRepository{}
		assistant := &fakeAssistant{err: domain.ErrRunNotCompleted}
		svc := newTestChatService(repo, assistant)

		reply, err := svc.HandleMessage(ctx, "u1", "mouse")
		if err != nil {
			t.Fatalf("assistant failure must not surface, got %v", err)
		}
		if !strings.Contains(reply.Response, "Erro ao comunicar com o assistente de IA") {
			t.Errorf("Response = %q, want failure notice", reply.Response)
		}
		if !strings.Contains(reply.Response, "Mouse Gamer RGB") {
			t.Errorf("Response = %q, want matched product", reply.Response)
		}
		// fallback product has an image, so the payload carries a proxied block
		if !strings.Contains(reply.Response, "/proxy-image?url=") {
			t.Errorf("Response = %q, want proxied fallback image", reply.Response)
		}
	})

	t.Run("disabled assistant uses local search notice", func(t *testing.T) {
		svc := newTestChatService(&fakeMessageRepository{}, nil)

		reply, err := svc.HandleMessage(ctx, "u1", "teclado")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(reply.Response, "Usando busca local.") {
			t.Errorf("Response = %q, want local search notice", reply.Response)
		}
		if !strings.Contains(reply.Response, "Teclado Mecanico") {
			t.Errorf("Response = %q, want matched product", reply.Response)
		}
	})

	t.Run("no matches yields a no-results notice", func(t *testing.T) {
		svc := newTestChatService(&fakeMessageRepository{}, nil)

		reply, err := svc.HandleMessage(ctx, "u1", "geladeira")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(reply.Response, "Não encontrei produtos na busca local.") {
			t.Errorf("Response = %q, want no-results notice", reply.Response)
		}
	})

	t.Run("persistence failure aborts the exchange", func(t *testing.T) {
		repo := &fakeMessageRepository{saveErr: errors.New("connection refused")}
		svc := newTestChatService(repo, &fakeAssistant{reply: "oi"})

		_, err := svc.HandleMessage(ctx, "u1", "mouse")
		if !errors.Is(err, domain.ErrPersistence) {
			t.Errorf("error = %v, want ErrPersistence", err)
		}
	})
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("removes only the given user's messages", func(t *testing.T) {
		repo := &fakeMessageRepository{}
		svc := newTestChatService(repo, nil)

		if _, err := svc.HandleMessage(ctx, "u1", "mouse"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.HandleMessage(ctx, "u2", "teclado"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		removed, err := svc.ClearHistory(ctx, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if removed != 2 {
			t.Errorf("removed = %d, want 2", removed)
		}

		left, _ := svc.History(ctx, "u2")
		if len(left) != 2 {
			t.Errorf("u2 has %d messages, want 2 untouched", len(left))
		}
		gone, _ := svc.History(ctx, "u1")
		if len(gone) != 0 {
			t.Errorf("u1 has %d messages, want 0", len(gone))
		}
	})
}
