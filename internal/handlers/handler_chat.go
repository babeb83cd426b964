package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

type chatHandler struct {
	chatService portssvc.ChatSvc
}

func registerChatRoutes(rg gin.IRoutes, cs portssvc.ChatSvc, extra ...gin.HandlerFunc) {
	h := &chatHandler{chatService: cs}
	rg.POST("/chat", append(extra, h.chat)...)
}

// chat godoc
// @Summary Ask a question about transactions
// @Description Relays the question and the caller's transaction list to a language model
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Question and transactions"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Language model unavailable"
// @Security BearerAuth
// @Router /chat [post]
func (h *chatHandler) chat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Chat", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	answer, err := h.chatService.Answer(c.Request.Context(), req.Question, dto.ToDomainTransactionSlice(req.Transactions))
	if err != nil {
		respondError(c, logger, err, "Failed to answer question")
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{Response: answer})
}
