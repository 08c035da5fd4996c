package controllers

import (
	"net/http"
	"time"

	"workshop-inventory/models"
	"workshop-inventory/service"
	"workshop-inventory/utils"

	"github.com/gin-gonic/gin"
)

type PurchaseController struct {
	procurement *service.ProcurementService
}

func NewPurchaseController(procurement *service.ProcurementService) *PurchaseController {
	return &PurchaseController{procurement: procurement}
}

type OrderLineInput struct {
	ItemType models.ItemType `json:"item_type" binding:"required"`
	ItemID   uint            `json:"item_id" binding:"required"`
	Quantity float64         `json:"quantity" binding:"required,gt=0"`
	Price    float64         `json:"price" binding:"gte=0"`
}

func (in OrderLineInput) toLine() service.LineInput {
	return service.LineInput{
		Ref:      models.ItemRef{Type: in.ItemType, ID: in.ItemID},
		Quantity: in.Quantity,
		Price:    in.Price,
	}
}

type CreateOrderInput struct {
	SupplierID uint             `json:"supplier_id" binding:"required"`
	Lines      []OrderLineInput `json:"lines"`
}

// POST /purchase-orders
func (pc *PurchaseController) Create(c *gin.Context) {
	var in CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	lines := make([]service.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, l.toLine())
	}
	order, err := pc.procurement.Create(in.SupplierID, lines)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "purchase order created", order)
}

// GET /purchase-orders
func (pc *PurchaseController) List(c *gin.Context) {
	orders, err := pc.procurement.List()
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "purchase orders", orders)
}

// GET /purchase-orders/:id
func (pc *PurchaseController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := pc.procurement.Get(id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "purchase order", order)
}

// POST /purchase-orders/:id/lines
func (pc *PurchaseController) AddLine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in OrderLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	order, err := pc.procurement.AddLine(id, in.toLine())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "line added", order)
}

type UpdateLineInput struct {
	Quantity *float64 `json:"quantity"`
	Price    *float64 `json:"price"`
}

// PUT /purchase-orders/:id/lines/:line_id
func (pc *PurchaseController) UpdateLine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "line_id")
	if !ok {
		return
	}
	var in UpdateLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	order, err := pc.procurement.UpdateLine(id, lineID, in.Quantity, in.Price)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "line updated", order)
}

// DELETE /purchase-orders/:id/lines/:line_id
func (pc *PurchaseController) RemoveLine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "line_id")
	if !ok {
		return
	}
	order, err := pc.procurement.RemoveLine(id, lineID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "line removed", order)
}

type UpdateFeesInput struct {
	ShippingCost *float64 `json:"shipping_cost"`
	TaxAmount    *float64 `json:"tax_amount"`
	Notes        *string  `json:"notes"`
}

// PUT /purchase-orders/:id/fees
func (pc *PurchaseController) UpdateFees(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in UpdateFeesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	order, err := pc.procurement.UpdateFees(id, in.ShippingCost, in.TaxAmount, in.Notes)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "fees updated", order)
}

// POST /purchase-orders/:id/place
func (pc *PurchaseController) Place(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := pc.procurement.Place(id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "purchase order placed", order)
}

type ReceiveLineInput struct {
	LineID   uint    `json:"line_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

type ReceiveInput struct {
	Lines        []ReceiveLineInput `json:"lines" binding:"required,min=1"`
	DeliveryDate *time.Time         `json:"delivery_date"`
	Notes        *string            `json:"notes"`
}

// POST /purchase-orders/:id/receive
func (pc *PurchaseController) Receive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in ReceiveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	receipt := service.Receipt{DeliveryDate: in.DeliveryDate, Notes: in.Notes}
	for _, l := range in.Lines {
		receipt.Lines = append(receipt.Lines, service.ReceiptLine{LineID: l.LineID, Quantity: l.Quantity})
	}
	order, err := pc.procurement.Receive(id, receipt)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "receipt processed", order)
}

// DELETE /purchase-orders/:id
func (pc *PurchaseController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.procurement.Delete(id); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "purchase order deleted", nil)
}
