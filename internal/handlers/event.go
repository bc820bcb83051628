package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fuel-command-center/internal/auth"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// RegisterEventRoutes registers the log entry endpoints.
//
// POST /dispenses, POST /receipts
// - Requires X-API-Key (operator context)
// - Durable: returns 201 only after the row has been appended
// - A failed append returns 502 with the submitted payload
func RegisterEventRoutes(r gin.IRoutes, svc *fuel.Service) {
	r.POST("/dispenses", func(c *gin.Context) {
		operator := auth.Operator(c)
		if operator == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req models.DispenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		resp, err := svc.RecordDispense(c.Request.Context(), operator, req)
		if err != nil {
			respondError(c, err, req)
			return
		}
		c.JSON(http.StatusCreated, resp)
	})

	r.POST("/receipts", func(c *gin.Context) {
		operator := auth.Operator(c)
		if operator == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req models.ReceiptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		resp, err := svc.RecordReceipt(c.Request.Context(), operator, req)
		if err != nil {
			respondError(c, err, req)
			return
		}
		c.JSON(http.StatusCreated, resp)
	})
}
