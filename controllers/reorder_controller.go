package controllers

import (
	"workshop-inventory/service"
	"workshop-inventory/utils"

	"github.com/gin-gonic/gin"
)

type ReorderController struct {
	reorder *service.ReorderService
}

func NewReorderController(reorder *service.ReorderService) *ReorderController {
	return &ReorderController{reorder: reorder}
}

// GET /reorder/low-stock
func (rc *ReorderController) LowStock(c *gin.Context) {
	records, err := rc.reorder.ScanLowStock()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "low stock records", records)
}

// POST /reorder/generate
func (rc *ReorderController) Generate(c *gin.Context) {
	result, err := rc.reorder.GenerateDraftOrders()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result.Message, result)
}
