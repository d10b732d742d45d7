package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/lojabot/backend/internal/domain"
	"github.com/lojabot/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chat        *usecase.ChatService
	proxyClient *http.Client
}

// NewHandler creates a new HTTP handler. proxyTimeout bounds how long the
// image proxy waits for the upstream host.
func NewHandler(chat *usecase.ChatService, proxyTimeout time.Duration) *Handler {
	if proxyTimeout <= 0 {
		proxyTimeout = 60 * time.Second
	}
	return &Handler{
		chat: chat,
		proxyClient: &http.Client{
			Timeout: proxyTimeout,
		},
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lojabot-backend",
		"version": "1.0.0",
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles one chat exchange for the authenticated user
func (h *Handler) Chat(c *gin.Context) {
	userID := c.GetString(contextUserIDKey)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem vazia"})
		return
	}

	reply, err := h.chat.HandleMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem vazia"})
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("chat processing error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao processar mensagem."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":  reply.Response,
		"image_url": nil, // image is embedded in the response markup
		"is_html":   reply.IsHTML,
		"timestamp": reply.Timestamp,
	})
}

// ClearChat deletes the authenticated user's whole conversation history
func (h *Handler) ClearChat(c *gin.Context) {
	userID := c.GetString(contextUserIDKey)

	if _, err := h.chat.ClearHistory(c.Request.Context(), userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to clear chat history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erro ao limpar histórico.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Histórico limpo com sucesso!",
	})
}

// History returns the authenticated user's messages, oldest first
func (h *Handler) History(c *gin.Context) {
	userID := c.GetString(contextUserIDKey)

	messages, err := h.chat.History(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load chat history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar histórico."})
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// ProxyImage streams an external image back to the caller so product images
// never hotlink the store's suppliers directly. Upstream failures are
// classified: timeout maps to 504, an upstream error status is forwarded,
// anything else is a generic 500.
func (h *Handler) ProxyImage(c *gin.Context) {
	imageURL := c.Query("url")
	if imageURL == "" {
		c.String(http.StatusBadRequest, "Missing image URL")
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error fetching image")
		return
	}

	resp, err := h.proxyClient.Do(req)
	if err != nil {
		var netErr net.Error
		if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn().Str("url", imageURL).Msg("timeout fetching proxied image")
			c.String(http.StatusGatewayTimeout, "Timeout fetching image")
			return
		}
		log.Warn().Err(err).Str("url", imageURL).Msg("error fetching proxied image")
		c.String(http.StatusInternalServerError, "Error fetching image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		c.String(resp.StatusCode, "Error fetching image")
		return
	}

	c.DataFromReader(http.StatusOK, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, nil)
}
