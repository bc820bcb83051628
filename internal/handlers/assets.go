package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

type assetView struct {
	models.Asset
	Label string `json:"label"`
}

// RegisterAssetRoutes registers the directory lookups used by entry forms.
//
// GET /assets?q=   substring search over "Fleet No | Description (Plate)"
// GET /tankers     tanker roster
func RegisterAssetRoutes(r gin.IRoutes, svc *fuel.Service) {
	r.GET("/assets", func(c *gin.Context) {
		assets, err := svc.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, err, nil)
			return
		}
		out := make([]assetView, 0, len(assets))
		for _, a := range assets {
			out = append(out, assetView{Asset: a, Label: a.SearchLabel()})
		}
		c.JSON(http.StatusOK, gin.H{"count": len(out), "assets": out})
	})

	r.GET("/tankers", func(c *gin.Context) {
		tankers, err := svc.Tankers(c.Request.Context())
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tankers": tankers})
	})
}
