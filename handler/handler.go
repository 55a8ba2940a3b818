package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-server/internal/domain"
	"portfolio-server/internal/repository"
	"portfolio-server/internal/usecase"
)

// ChatService is the chat-proxy surface the handler consumes.
type ChatService interface {
	Reply(ctx context.Context, history []domain.ChatMessage) (string, error)
}

// AssistantService is the wizard/chat session surface.
type AssistantService interface {
	HandleMessage(ctx context.Context, in usecase.AssistantInput) (usecase.AssistantOutput, error)
}

// WeatherService is the weather-proxy surface.
type WeatherService interface {
	Current(ctx context.Context) domain.WeatherReport
}

// RatingService is the rating-submission surface.
type RatingService interface {
	Submit(ctx context.Context, in domain.RatingSubmission) error
}

// Handler exposes the portfolio API over Gin.
type Handler struct {
	chat        ChatService
	assistant   AssistantService
	weather     WeatherService
	rating      RatingService
	views       repository.VisitRecorder
	ownerSecret string
}

// New creates a Handler. views may be nil when no store is configured;
// the view endpoints then answer with their fallback payloads.
func New(chat ChatService, assistant AssistantService, weather WeatherService, rating RatingService, views repository.VisitRecorder, ownerSecret string) (*Handler, error) {
	if chat == nil {
		return nil, errors.New("handler: chat service must not be nil")
	}
	if assistant == nil {
		return nil, errors.New("handler: assistant service must not be nil")
	}
	if weather == nil {
		return nil, errors.New("handler: weather service must not be nil")
	}
	if rating == nil {
		return nil, errors.New("handler: rating service must not be nil")
	}
	if strings.TrimSpace(ownerSecret) == "" {
		return nil, errors.New("handler: owner secret must not be empty")
	}
	return &Handler{
		chat:        chat,
		assistant:   assistant,
		weather:     weather,
		rating:      rating,
		views:       views,
		ownerSecret: ownerSecret,
	}, nil
}

// RegisterRoutes mounts the API on the given engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/chat", h.postChat)
	api.POST("/assistant", h.postAssistant)
	api.GET("/weather", h.getWeather)
	api.GET("/views", h.getViews)
	api.POST("/views", h.postViews)
	api.POST("/rating", h.postRating)
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Message string `json:"message"`
}

func (h *Handler) postChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), req.Messages)
	if err != nil {
		status, msg := mapError(err, "Failed to get AI response")
		slog.Error("chat request failed", "err", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, chatResponse{Message: reply})
}

type assistantRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type assistantResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

func (h *Handler) postAssistant(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := h.assistant.HandleMessage(c.Request.Context(), usecase.AssistantInput{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		status, msg := mapError(err, "Failed to process message")
		slog.Error("assistant request failed", "err", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, assistantResponse{SessionID: out.SessionID, Reply: out.Reply})
}

func (h *Handler) getWeather(c *gin.Context) {
	c.JSON(http.StatusOK, h.weather.Current(c.Request.Context()))
}

func (h *Handler) getViews(c *gin.Context) {
	owner := c.Query("owner")
	if subtle.ConstantTimeCompare([]byte(owner), []byte(h.ownerSecret)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"views": nil, "message": "Unauthorized"})
		return
	}

	if h.views == nil {
		c.JSON(http.StatusOK, gin.H{"views": 0, "fallback": true})
		return
	}
	views, err := h.views.TotalViews(c.Request.Context())
	if err != nil {
		slog.Error("views read failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"views": 0, "fallback": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"views": views})
}

func (h *Handler) postViews(c *gin.Context) {
	if h.views == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "fallback": true, "views": 0})
		return
	}

	isNew, views, err := h.views.RecordVisit(c.Request.Context(), visitorIP(c))
	if err != nil {
		slog.Error("visit record failed", "err", err)
		c.JSON(http.StatusOK, gin.H{"success": false, "fallback": true, "views": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isNewVisitor": isNew, "views": views})
}

func (h *Handler) postRating(c *gin.Context) {
	var req domain.RatingSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.rating.Submit(c.Request.Context(), req); err != nil {
		status, msg := mapError(err, "Failed to submit rating")
		slog.Error("rating request failed", "err", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// visitorIP resolves the visitor address: first forwarded-for entry,
// then the direct-connection header, then "unknown". Proxied traffic
// without headers collapses into one counted visitor; accepted
// imprecision.
func visitorIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}

// mapError converts usecase error codes to HTTP statuses with a
// visitor-safe message.
func mapError(err error, fallbackMsg string) (int, string) {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		switch ucErr.Code {
		case usecase.ErrorInvalidInput:
			return http.StatusBadRequest, ucErr.Reason
		case usecase.ErrorUnauthorized:
			return http.StatusForbidden, "Unauthorized"
		case usecase.ErrorUpstream:
			return http.StatusBadGateway, fallbackMsg
		}
	}
	return http.StatusInternalServerError, fallbackMsg
}
