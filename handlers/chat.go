package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/conversation"
)

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// Chat runs one dialogue turn. An empty session_id starts a new session and
// the reply carries the ID to use on subsequent turns.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message must not be empty"})
		return
	}

	reply, err := h.engine.HandleMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
			return
		}
		h.log.Error("chat turn failed", zap.String("session", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, reply)
}

// Session returns the stored state for a session, mostly for debugging and
// UI resume.
func (h *Handler) Session(c *gin.Context) {
	id := c.Param("id")
	session, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// ResetSession drops a session so the dialogue starts over.
func (h *Handler) ResetSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Evict(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session reset"})
}
