package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink_backend/internal/middleware"
	"carelink_backend/internal/services"
	"carelink_backend/internal/services/dto"
)

type ChatHandler struct {
	*BaseHandler
	chatService   services.ChatService
	fanoutService services.FanoutService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService, fanoutService services.FanoutService) *ChatHandler {
	return &ChatHandler{
		BaseHandler:   base,
		chatService:   chatService,
		fanoutService: fanoutService,
	}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chat := r.Group("")
	chat.Use(middleware.AuthMiddleware())
	{
		chat.POST("/messages", h.SendMessage)
		chat.GET("/conversations", h.GetConversations)
		chat.GET("/conversations/:conversationId/messages", h.GetMessages)
		chat.PUT("/conversations/:conversationId/read", h.MarkConversationRead)
	}
}

// SendMessage runs the full send flow, notification fan-out included.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.fanoutService.MessageSent(actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ChatHandler) GetConversations(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversations(actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	conversationID := c.Param("conversationId")
	page, pageSize := ParsePagination(c)

	messages, err := h.chatService.ListMessages(actor, conversationID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) MarkConversationRead(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	conversationID := c.Param("conversationId")

	flipped, err := h.chatService.MarkConversationRead(actor, conversationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"marked_read":     flipped,
	})
}
