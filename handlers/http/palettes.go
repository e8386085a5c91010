package httpHandler

import (
	"net/http"

	"ecowattch-server/logger"
	"ecowattch-server/usecases"

	"github.com/gin-gonic/gin"
)

type PaletteHandler struct {
	useCase *usecases.CatalogUseCase
	log     *logger.Logger
}

func NewPaletteHandler(useCase *usecases.CatalogUseCase, log *logger.Logger) *PaletteHandler {
	return &PaletteHandler{
		useCase: useCase,
		log:     log,
	}
}

// GetPalettes handles GET /palettes
func (h *PaletteHandler) GetPalettes(c *gin.Context) {
	palettes, err := h.useCase.Palettes(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   statusSuccess,
		"palettes": palettes,
	})
}
