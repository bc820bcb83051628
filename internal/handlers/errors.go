package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/logging"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// respondError maps service and store errors onto HTTP responses. submitted
// is echoed back on write failures so the client can keep its form state.
func respondError(c *gin.Context, err error, submitted any) {
	var (
		invalid *fuel.ValidationError
		write   *store.WriteError
		schema  *store.SchemaError
		read    *store.ReadError
	)
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission", "problems": invalid.Problems})
	case errors.Is(err, fuel.ErrUnknownAsset):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, fuel.ErrEmptyDirectory):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &write):
		body := gin.H{"error": "append failed", "worksheet": write.Worksheet, "detail": write.Err.Error(), "row": write.Row}
		if submitted != nil {
			body["submitted"] = submitted
		}
		c.JSON(http.StatusBadGateway, body)
	case errors.As(err, &schema):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "worksheet schema mismatch",
			"worksheet": schema.Worksheet,
			"expected":  schema.Expected,
			"found":     schema.Found,
			"missing":   schema.Missing,
		})
	case errors.As(err, &read):
		c.JSON(http.StatusBadGateway, gin.H{"error": "read failed", "worksheet": read.Worksheet, "detail": read.Err.Error()})
	default:
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
