package controllers

import (
	"net/http"

	"workshop-inventory/service"
	"workshop-inventory/utils"

	"github.com/gin-gonic/gin"
)

type ToolListController struct {
	toolLists *service.ToolListService
}

func NewToolListController(toolLists *service.ToolListService) *ToolListController {
	return &ToolListController{toolLists: toolLists}
}

type CreateToolListInput struct {
	ProjectID uint    `json:"project_id" binding:"required"`
	Notes     *string `json:"notes"`
}

// POST /tool-lists
func (tc *ToolListController) Create(c *gin.Context) {
	var in CreateToolListInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	list, err := tc.toolLists.CreateForProject(in.ProjectID, in.Notes)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "tool list created", list)
}

// GET /tool-lists/:id
func (tc *ToolListController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := tc.toolLists.Get(id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "tool list", list)
}

type AddToolInput struct {
	ToolID   uint `json:"tool_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// POST /tool-lists/:id/tools
func (tc *ToolListController) AddTool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in AddToolInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	item, err := tc.toolLists.AddTool(id, in.ToolID, in.Quantity)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "tool added", item)
}

// DELETE /tool-lists/:id/tools/:item_id
func (tc *ToolListController) RemoveTool(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	if err := tc.toolLists.RemoveTool(id, itemID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "tool removed", nil)
}

type UpdateToolQuantityInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

// PUT /tool-lists/:id/tools/:item_id
func (tc *ToolListController) UpdateToolQuantity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	var in UpdateToolQuantityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	item, err := tc.toolLists.UpdateToolQuantity(id, itemID, in.Quantity)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "tool quantity updated", item)
}

type SelectionInput struct {
	All     bool   `json:"all"`
	ItemIDs []uint `json:"item_ids"`
}

// POST /tool-lists/:id/allocate
func (tc *ToolListController) Allocate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in SelectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	result, err := tc.toolLists.AllocateTools(id, service.ToolSelection{All: in.All, ItemIDs: in.ItemIDs})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "allocation processed", result)
}

type ReturnInput struct {
	All            bool   `json:"all"`
	ItemIDs        []uint `json:"item_ids"`
	ConditionNotes string `json:"condition_notes"`
}

// POST /tool-lists/:id/return
func (tc *ToolListController) Return(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in ReturnInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	result, err := tc.toolLists.ReturnTools(id,
		service.ToolSelection{All: in.All, ItemIDs: in.ItemIDs}, in.ConditionNotes)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "return processed", result)
}

type CompleteInput struct {
	Notes *string `json:"notes"`
}

// POST /tool-lists/:id/complete
func (tc *ToolListController) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in CompleteInput
	_ = c.ShouldBindJSON(&in) // body optional
	list, err := tc.toolLists.CompleteToolList(id, in.Notes)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "tool list completed", list)
}

type CancelInput struct {
	Reason string `json:"reason" binding:"required"`
}

// POST /tool-lists/:id/cancel
func (tc *ToolListController) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in CancelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	list, err := tc.toolLists.CancelToolList(id, in.Reason)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "tool list cancelled", list)
}

// GET /tool-lists/:id/availability
func (tc *ToolListController) Availability(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := tc.toolLists.ValidateToolAvailability(id)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, "availability report", report)
}
