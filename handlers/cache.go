package handlers

import (
	"net/http"

	"ecowattch-server/cache"
	"ecowattch-server/logger"
	"ecowattch-server/usecases"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	catalog *usecases.CatalogUseCase
	cache   *cache.PaletteCache
	log     *logger.Logger
}

func NewCacheHandler(catalog *usecases.CatalogUseCase, paletteCache *cache.PaletteCache, log *logger.Logger) *CacheHandler {
	return &CacheHandler{
		catalog: catalog,
		cache:   paletteCache,
		log:     log,
	}
}

// RefreshPalettes drops the cached catalog and reloads it.
// POST /palettes/refresh
func (h *CacheHandler) RefreshPalettes(c *gin.Context) {
	palettes, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "failed to refresh palettes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed", "count": len(palettes)})
}

// GetCacheStats GET /palettes/cache
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  h.cache.Stats(),
	})
}
