package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lojabot/backend/internal/domain"
)

// User-facing notices, kept in pt-BR like the rest of the store front
const (
	noticeAssistantFailed   = "Erro ao comunicar com o assistente de IA, usando busca local."
	noticeAssistantDisabled = "Usando busca local."
	noticeFoundAfterError   = " Encontrei:\n\n"
	noticeFoundProducts     = " Encontrei estes produtos:\n\n"
	noticeNoResults         = " Não encontrei produtos na busca local."
)

// ChatService orchestrates one chat exchange: persist the inbound message,
// ask the remote assistant (or fall back to catalog search), post-process
// the reply and persist it. No state is shared between requests beyond the
// message store; the catalog is read-only after startup.
type ChatService struct {
	messages  domain.MessageRepository
	assistant domain.AssistantClient // nil when the integration is disabled
	search    *SearchService
	catalog   []domain.Product
}

// NewChatService creates a new chat service. assistant may be nil, which
// puts the service in local-search-only mode.
func NewChatService(
	messages domain.MessageRepository,
	assistant domain.AssistantClient,
	search *SearchService,
	catalog []domain.Product,
) *ChatService {
	return &ChatService{
		messages:  messages,
		assistant: assistant,
		search:    search,
		catalog:   catalog,
	}
}

// HandleMessage runs the full pipeline for one user message and returns the
// display payload. Assistant failures degrade silently to the local search;
// persistence failures abort the exchange.
func (s *ChatService) HandleMessage(ctx context.Context, userID, text string) (*domain.ChatReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	userMsg := &domain.ChatMessage{
		UserID:    userID,
		Sender:    domain.SenderUser,
		Content:   text,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Save(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	rawText := s.assistantOrFallback(ctx, text)

	imageRef := ExtractImage(rawText)
	displayHTML := FormatFinal(rawText, imageRef)

	assistantMsg := &domain.ChatMessage{
		UserID:    userID,
		Sender:    domain.SenderAssistant,
		Content:   displayHTML,
		IsHTML:    true,
		Timestamp: time.Now().UTC(),
	}
	if imageRef != nil {
		assistantMsg.ImageURL = imageRef.URL
	}
	if err := s.messages.Save(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	return &domain.ChatReply{
		Response:  displayHTML,
		IsHTML:    true,
		Timestamp: assistantMsg.Timestamp,
	}, nil
}

// History returns all persisted messages of one user, oldest first
func (s *ChatService) History(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	return s.messages.ListByUser(ctx, userID)
}

// ClearHistory deletes all persisted messages of one user and returns how
// many were removed
func (s *ChatService) ClearHistory(ctx context.Context, userID string) (int64, error) {
	return s.messages.DeleteByUser(ctx, userID)
}

// assistantOrFallback tries the remote assistant first and degrades to the
// local catalog search on any failure. Never returns an error: whatever
// happens upstream, the user gets a reply.
func (s *ChatService) assistantOrFallback(ctx context.Context, text string) string {
	if s.assistant == nil {
		return s.fallbackReply(text, noticeAssistantDisabled)
	}

	reply, err := s.assistant.Ask(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("assistant path failed, falling back to local search")
		return s.fallbackReply(text, noticeAssistantFailed)
	}
	return reply
}

// fallbackReply runs the catalog search with the original user text as the
// query and concatenates the formatted product blocks, prefixed with a
// short notice explaining why the local search answered.
func (s *ChatService) fallbackReply(text, notice string) string {
	found := s.search.FindProducts(text, s.catalog)
	if len(found) == 0 {
		return notice + noticeNoResults
	}

	var b strings.Builder
	b.WriteString(notice)
	if notice == noticeAssistantFailed {
		b.WriteString(noticeFoundAfterError)
	} else {
		b.WriteString(noticeFoundProducts)
	}
	for _, match := range found {
		b.WriteString(FormatProductFallback(match.Product))
		b.WriteString("\n")
	}
	return b.String()
}
