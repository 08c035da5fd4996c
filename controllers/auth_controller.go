package controllers

import (
	"net/http"

	"workshop-inventory/models"
	"workshop-inventory/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	db *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	var exists models.Admin
	if err := ac.db.Where("email = ?", in.Email).First(&exists).Error; err == nil {
		utils.Error(c, http.StatusBadRequest, "email already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to hash password", err)
		return
	}

	admin := models.Admin{Name: in.Name, Email: in.Email, Password: string(hash)}
	if err := ac.db.Create(&admin).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to create account", err)
		return
	}

	utils.Created(c, "account created", gin.H{"id": admin.ID, "email": admin.Email})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid payload", err)
		return
	}

	var admin models.Admin
	if err := ac.db.Where("email = ?", in.Email).First(&admin).Error; err != nil {
		utils.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(in.Password)) != nil {
		utils.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Name)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "failed to issue token", err)
		return
	}
	utils.Success(c, "login ok", gin.H{"token": token})
}
