package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/export"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
)

// parseWindow reads the inclusive from/to query parameters (YYYY-MM-DD).
// Both are optional.
func parseWindow(c *gin.Context) (analytics.Window, error) {
	return analytics.ParseWindow(c.Query("from"), c.Query("to"))
}

// parseLimits applies limit overrides from the query string on top of base.
func parseLimits(c *gin.Context, base analytics.Limits) (analytics.Limits, error) {
	l := base
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"max_km_delta", &l.MaxKmDelta},
		{"max_hour_delta", &l.MaxHourDelta},
		{"max_fuel_out", &l.MaxFuelOut},
		{"min_km_per_l", &l.MinKmPerL},
		{"max_km_per_l", &l.MaxKmPerL},
		{"min_efficiency_ratio", &l.MinEfficiencyRatio},
		{"max_efficiency_ratio", &l.MaxEfficiencyRatio},
	} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return analytics.Limits{}, fmt.Errorf("%s must be a number", p.name)
		}
		*p.dst = v
	}
	return l, l.Validate()
}

// RegisterMetricRoutes registers the serving-path endpoints.
//
// GET /dashboard, /consumption, /quality, /balances, /export.xlsx
// - Requires X-API-Key (operator context)
// - Optional inclusive window: from=YYYY-MM-DD&to=YYYY-MM-DD
func RegisterMetricRoutes(r gin.IRoutes, svc *fuel.Service) {
	r.GET("/dashboard", func(c *gin.Context) {
		window, err := parseWindow(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		summary, err := svc.Dashboard(c.Request.Context(), window)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	r.GET("/consumption", func(c *gin.Context) {
		window, err := parseWindow(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		records, err := svc.Consumption(c.Request.Context(), window, c.Query("asset"))
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
	})

	r.GET("/quality", func(c *gin.Context) {
		window, err := parseWindow(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		limits, err := parseLimits(c, svc.Limits())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		report, err := svc.Quality(c.Request.Context(), window, limits)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, report)
	})

	r.GET("/balances", func(c *gin.Context) {
		window, err := parseWindow(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		balances, err := svc.Balances(c.Request.Context(), window)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balances": balances})
	})

	r.GET("/export.xlsx", func(c *gin.Context) {
		window, err := parseWindow(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		report, err := svc.Report(c.Request.Context(), window)
		if err != nil {
			respondError(c, err, nil)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteWorkbook(&buf, report); err != nil {
			respondError(c, err, nil)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename(report)))
		c.Data(http.StatusOK, export.ContentType, buf.Bytes())
	})
}
