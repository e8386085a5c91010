package httpHandler

import (
	"net/http"

	"ecowattch-server/entities"
	"ecowattch-server/logger"
	"ecowattch-server/usecases"

	"github.com/gin-gonic/gin"
)

type PointsHandler struct {
	useCase *usecases.PointsUseCase
	log     *logger.Logger
}

func NewPointsHandler(useCase *usecases.PointsUseCase, log *logger.Logger) *PointsHandler {
	return &PointsHandler{
		useCase: useCase,
		log:     log,
	}
}

// Pointers so that an explicit 0 passes the required check.
type DormPointsRequest struct {
	Tinsley  *int `json:"Tinsley_total_points" binding:"required"`
	Sechrist *int `json:"Sechrist_total_points" binding:"required"`
	Gabaldon *int `json:"Gabaldon_total_points" binding:"required"`
}

type UpdateUserPointsRequest struct {
	Username        string `json:"username" binding:"required"`
	SpendablePoints *int   `json:"spendablePoints" binding:"required"`
}

type PurchaseRequest struct {
	Username       string `json:"username" binding:"required"`
	PaletteName    string `json:"paletteName" binding:"required"`
	PointsToDeduct int    `json:"pointsToDeduct" binding:"required,gt=0"`
}

// IncrementDormPoints handles POST /dorm_points
func (h *PointsHandler) IncrementDormPoints(c *gin.Context) {
	var req DormPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	deltas := []entities.DormDelta{
		{DormName: entities.DormTinsley, Delta: *req.Tinsley},
		{DormName: entities.DormSechrist, Delta: *req.Sechrist},
		{DormName: entities.DormGabaldon, Delta: *req.Gabaldon},
	}
	if err := h.useCase.IncrementDormPoints(c.Request.Context(), deltas); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  statusSuccess,
		"message": "Dorm points updated",
	})
}

// GetStandings handles GET /dorm_points
func (h *PointsHandler) GetStandings(c *gin.Context) {
	dorms, err := h.useCase.Standings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": statusSuccess,
		"dorms":  dorms,
	})
}

// UpdateUserPoints handles POST /update_user_points
func (h *PointsHandler) UpdateUserPoints(c *gin.Context) {
	var req UpdateUserPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	persisted, err := h.useCase.UpdateUserPoints(c.Request.Context(), req.Username, *req.SpendablePoints)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	message := "Spendable points updated"
	if !persisted {
		message = "Spendable points are not stored by this deployment; update acknowledged"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    statusSuccess,
		"message":   message,
		"persisted": persisted,
	})
}

// PurchasePalette handles POST /purchase_palette
func (h *PointsHandler) PurchasePalette(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	total, err := h.useCase.Purchase(c.Request.Context(), req.Username, req.PaletteName, req.PointsToDeduct)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        statusSuccess,
		"message":       "Purchase successful",
		"newPointTotal": total,
	})
}
