package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sms-gateway/internal/db"
	"sms-gateway/internal/logging"
	"sms-gateway/internal/models"
	"sms-gateway/internal/sms"
)

type Handler struct {
	svc    *sms.Service
	db     *db.DB
	logger *logging.Logger
}

func NewHandler(svc *sms.Service, dbConn *db.DB, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, db: dbConn, logger: logger}
}

// SendSMS is the single send operation. It binds the body, hands the request
// and the caller's source IP to the service, and answers with an opaque code.
func (h *Handler) SendSMS(c *gin.Context) {
	var req models.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A body that does not bind (absent fields, message not a string)
		// classifies the same as missing fields.
		h.logger.Warnf("Invalid request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": codeMissingFields})
		return
	}

	err := h.svc.Handle(c.Request.Context(), c.ClientIP(), req)
	status, code := outcomeResponse(err)
	if err != nil {
		if status == http.StatusInternalServerError {
			h.logger.Errorf("Send failed for user %s: %v", req.UserID, err)
		} else {
			h.logger.Warnf("Send rejected for user %s: %v", req.UserID, err)
		}
	}
	c.JSON(status, gin.H{"code": code})
}

func (h *Handler) GetDeliveriesByRequestID(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery log not enabled"})
		return
	}

	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		h.logger.Warnf("Invalid request_id %s: %v", c.Param("request_id"), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request_id"})
		return
	}

	receipts, err := h.db.GetReceiptsByRequestID(c.Request.Context(), requestID)
	if err != nil {
		h.logger.Errorf("Failed to get deliveries for request_id %s: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deliveries"})
		return
	}

	h.logger.Infof("Retrieved %d deliveries for request_id %s", len(receipts), requestID)
	c.JSON(http.StatusOK, receipts)
}

func (h *Handler) GetDeliveriesByUserID(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "delivery log not enabled"})
		return
	}

	userID := c.Param("user_id")
	receipts, err := h.db.GetReceiptsByUserID(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorf("Failed to get deliveries for user_id %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deliveries"})
		return
	}

	h.logger.Infof("Retrieved %d deliveries for user_id %s", len(receipts), userID)
	c.JSON(http.StatusOK, receipts)
}
