package routes

import (
	"errors"
	"net/http"
	"strings"

	"pdf-chat-platform/internal/config"
	"pdf-chat-platform/internal/logger"
	"pdf-chat-platform/internal/telemetry"
	"pdf-chat-platform/middleware"
	"pdf-chat-platform/models"
	"pdf-chat-platform/services"
	"pdf-chat-platform/utils"

	"github.com/gin-gonic/gin"
)

// SetupHighlightRoutes wires the citation-to-highlight endpoints.
func SetupHighlightRoutes(router *gin.Engine, cfg *config.Config, resolver *services.HighlightResolver, cache *services.HighlightCache, metrics *telemetry.Metrics) {
	embedAuth := middleware.NewEmbedAuthMiddleware(cfg)

	highlight := router.Group("/highlight")
	highlight.Use(embedAuth.RequireEmbedToken())

	// Resolve the source span behind an LLM citation so the viewer can
	// highlight it on the rendered page.
	highlight.POST("", func(c *gin.Context) {
		var query models.HighlightQuery
		if err := c.ShouldBindJSON(&query); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "Invalid request data",
				"details":    gin.H{"error": err.Error()},
			})
			return
		}

		// An embed token pins the request to its org regardless of body
		if orgURL := middleware.GetOrgURL(c); orgURL != "" {
			query.OrgURL = orgURL
		}

		resp, err := resolver.Resolve(c.Request.Context(), query)
		if err != nil {
			if errors.Is(err, services.ErrMissingFields) {
				utils.RespondWithError(c, http.StatusBadRequest, "missing_fields",
					"filename and page are required", nil)
				return
			}
			logger.Error("highlight resolution failed",
				"filename", query.Filename,
				"request_id", middleware.GetRequestID(c),
				"error", err)
			utils.RespondWithInternalError(c, "Failed to resolve highlight", err.Error())
			return
		}

		c.JSON(http.StatusOK, resp)
	})

	// Drop cached highlights for a document after its chunks are
	// re-ingested; stale cache entries would otherwise point at chunk IDs
	// that no longer exist.
	highlight.POST("/invalidate", func(c *gin.Context) {
		var req struct {
			Filename string `json:"filename"`
			OrgURL   string `json:"orgUrl"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Filename) == "" {
			utils.RespondWithBadRequest(c, "filename is required", nil)
			return
		}

		if orgURL := middleware.GetOrgURL(c); orgURL != "" {
			req.OrgURL = orgURL
		}

		if err := cache.Invalidate(c.Request.Context(), req.OrgURL, req.Filename); err != nil {
			logger.Error("cache invalidation failed", "filename", req.Filename, "error", err)
			utils.RespondWithInternalError(c, "Failed to invalidate cache", err.Error())
			return
		}
		if metrics != nil {
			metrics.RecordCacheInvalidation()
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
