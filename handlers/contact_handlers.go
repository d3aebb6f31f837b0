package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/api/metrics"
	"portfolio/api/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactRelay delivers a contact form submission.
type ContactRelay interface {
	SendContact(ctx context.Context, msg models.ContactMessage) error
}

type ContactHandlers struct {
	Relay ContactRelay
	// OwnerEmail is quoted to visitors when delivery fails.
	OwnerEmail string
	Metrics    *metrics.Metrics
	logger     zerolog.Logger
}

func NewContactHandlers(relay ContactRelay, ownerEmail string, m *metrics.Metrics, logger zerolog.Logger) *ContactHandlers {
	return &ContactHandlers{
		Relay:      relay,
		OwnerEmail: ownerEmail,
		Metrics:    m,
		logger:     logger.With().Str("component", "contact").Logger(),
	}
}

// ValidateContact returns the message to show for an invalid submission,
// or "" when msg can be sent.
func ValidateContact(msg models.ContactMessage) string {
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" ||
		strings.TrimSpace(msg.Subject) == "" || strings.TrimSpace(msg.Message) == "" {
		return "All fields are required"
	}
	if !emailPattern.MatchString(msg.Email) {
		return "Please enter a valid email address"
	}
	return ""
}

func (h *ContactHandlers) Submit(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		h.Metrics.RecordContact("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	if problem := ValidateContact(msg); problem != "" {
		h.Metrics.RecordContact("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.Relay.SendContact(ctx, msg); err != nil {
		h.logger.Error().Err(err).Str("email", msg.Email).Msg("contact form delivery failed")
		h.Metrics.RecordContact("failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to send message. Please try again later or contact me directly at " + h.OwnerEmail,
		})
		return
	}

	h.Metrics.RecordContact("sent")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Thank you for your message! I'll get back to you soon.",
	})
}
