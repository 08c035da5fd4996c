package controllers

import (
	"net/http"
	"strconv"

	"workshop-inventory/models"
	"workshop-inventory/service"
	"workshop-inventory/utils"

	"github.com/gin-gonic/gin"
)

type StockController struct {
	stock *service.StockService
}

func NewStockController(stock *service.StockService) *StockController {
	return &StockController{stock: stock}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return uint(id), true
}

func itemRefFromPath(c *gin.Context) (models.ItemRef, bool) {
	id, ok := parseID(c, "item_id")
	if !ok {
		return models.ItemRef{}, false
	}
	ref := models.ItemRef{Type: models.ItemType(c.Param("item_type")), ID: id}
	if err := ref.Validate(); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid item reference", err)
		return models.ItemRef{}, false
	}
	return ref, true
}

// GET /stock/:item_type/:item_id
func (sc *StockController) Get(c *gin.Context) {
	ref, ok := itemRefFromPath(c)
	if !ok {
		return
	}
	rec, err := sc.stock.Get(ref)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "stock record", rec)
}

type EnsureStockInput struct {
	ItemType        models.ItemType `json:"item_type" binding:"required"`
	ItemID          uint            `json:"item_id" binding:"required"`
	Quantity        float64         `json:"quantity"`
	StorageLocation string          `json:"storage_location"`
}

// POST /stock
func (sc *StockController) Ensure(c *gin.Context) {
	var in EnsureStockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	rec, err := sc.stock.GetOrCreate(
		models.ItemRef{Type: in.ItemType, ID: in.ItemID},
		service.StockDefaults{Quantity: in.Quantity, StorageLocation: in.StorageLocation},
	)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "stock record", rec)
}

type AdjustInput struct {
	Delta  float64               `json:"delta" binding:"required"`
	Type   models.AdjustmentType `json:"adjustment_type" binding:"required"`
	Reason string                `json:"reason"`
}

// POST /stock/:id/adjust
func (sc *StockController) Adjust(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in AdjustInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	rec, err := sc.stock.Adjust(id, in.Delta, in.Type, in.Reason)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "stock adjusted", rec)
}

type MoveInput struct {
	From string `json:"from"`
	To   string `json:"to" binding:"required"`
}

// POST /stock/:id/move
func (sc *StockController) Move(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in MoveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	rec, err := sc.stock.Move(id, in.From, in.To)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "stock moved", rec)
}

// GET /stock/:id/transactions
func (sc *StockController) Transactions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	trxs, err := sc.stock.Transactions(id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "stock transactions", trxs)
}

// POST /stock/recompute-statuses
func (sc *StockController) RecomputeStatuses(c *gin.Context) {
	counts, err := sc.stock.RecomputeAllStatuses()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "statuses recomputed", counts)
}
