package handler

import (
	"net/http"
	"strconv"

	"mcc-backend/internal/middleware"
	"mcc-backend/internal/model"
	"mcc-backend/internal/service"
	"mcc-backend/pkg/pagination"
	"mcc-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products", middleware.RequireAuth(), h.List)

	admin := router.Group("/products")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// List returns the product catalog
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Envelope{result=service.ProductListResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	result, err := h.productService.List(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(result))
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.OK(product))
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid product id"))
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload: "+err.Error()))
		return
	}

	product, err := h.productService.Update(c.Request.Context(), uint(id), req, middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(product))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid product id"))
		return
	}

	if err := h.productService.Delete(c.Request.Context(), uint(id), middleware.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK(gin.H{"deleted": id}))
}
