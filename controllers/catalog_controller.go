package controllers

import (
	"net/http"

	"workshop-inventory/models"
	"workshop-inventory/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogController is the thin CRUD surface over materials, products,
// tools and suppliers. No business rules live here.
type CatalogController struct {
	db *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{db: db}
}

func (cc *CatalogController) CreateMaterial(c *gin.Context) {
	var m models.Material
	if err := c.ShouldBindJSON(&m); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if err := cc.db.Create(&m).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to create material", err)
		return
	}
	utils.Created(c, "material created", m)
}

func (cc *CatalogController) ListMaterials(c *gin.Context) {
	var rows []models.Material
	if err := cc.db.Order("id").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to fetch materials", err)
		return
	}
	utils.Success(c, "materials", rows)
}

func (cc *CatalogController) CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if err := cc.db.Create(&p).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to create product", err)
		return
	}
	utils.Created(c, "product created", p)
}

func (cc *CatalogController) ListProducts(c *gin.Context) {
	var rows []models.Product
	if err := cc.db.Order("id").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to fetch products", err)
		return
	}
	utils.Success(c, "products", rows)
}

func (cc *CatalogController) CreateTool(c *gin.Context) {
	var t models.Tool
	if err := c.ShouldBindJSON(&t); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if err := cc.db.Create(&t).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to create tool", err)
		return
	}
	utils.Created(c, "tool created", t)
}

func (cc *CatalogController) ListTools(c *gin.Context) {
	var rows []models.Tool
	if err := cc.db.Order("id").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to fetch tools", err)
		return
	}
	utils.Success(c, "tools", rows)
}

func (cc *CatalogController) CreateSupplier(c *gin.Context) {
	var s models.Supplier
	if err := c.ShouldBindJSON(&s); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if err := cc.db.Create(&s).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to create supplier", err)
		return
	}
	utils.Created(c, "supplier created", s)
}

func (cc *CatalogController) ListSuppliers(c *gin.Context) {
	var rows []models.Supplier
	if err := cc.db.Order("id").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to fetch suppliers", err)
		return
	}
	utils.Success(c, "suppliers", rows)
}
