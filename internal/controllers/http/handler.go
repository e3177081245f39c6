package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/infra/redisstore"
	"pharmacy-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders  *services.OrderService
	catalog *services.CatalogService
	auth    *services.AuthService
	limiter *redisstore.Limiter
}

func NewHandler(orders *services.OrderService, catalog *services.CatalogService, auth *services.AuthService, limiter *redisstore.Limiter) *Handler {
	return &Handler{orders: orders, catalog: catalog, auth: auth, limiter: limiter}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)
	r.POST("/register", RateLimiter(h.limiter), h.Register)
	r.POST("/login", RateLimiter(h.limiter), h.Login)

	authed := r.Group("/", RequireAuth(h.auth))
	authed.POST("/logout", h.Logout)
	authed.GET("/catalog/categories", h.Categories)
	authed.GET("/catalog/categories/:category/subcategories", h.Subcategories)
	authed.GET("/catalog/products", h.AvailableProducts)

	customer := authed.Group("/orders", RequireRole(domain.RoleCustomer))
	customer.POST("", h.PlaceOrder)
	customer.GET("", h.ListMyOrders)
	customer.GET("/active", h.ListMyActiveOrders)
	customer.PATCH("/:id", h.UpdateOrder)
	customer.POST("/:id/cancel", h.CancelOrder)

	admin := authed.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.POST("/orders", h.AdminPlaceOrder)
	admin.GET("/orders", h.AdminListOrders)
	admin.GET("/orders/:id", h.AdminGetOrder)
	admin.POST("/users", h.AdminCreateUser)
	admin.GET("/products", h.AdminListProducts)
	admin.POST("/products", h.AdminAddProduct)
	admin.DELETE("/products/:id", h.AdminDeleteProduct)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "quantity" {
			writeError(c, fmt.Errorf("%w: quantity must be a whole number", domain.ErrInvalidQuantity))
			return false
		}
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return false
	}
	return true
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		writeError(c, fmt.Errorf("%w: id must be a positive integer", domain.ErrInvalidInput))
		return 0, false
	}
	return id, true
}

func (r RegisterRequest) input() services.RegisterInput {
	return services.RegisterInput{
		Role:          r.Role,
		UserID:        r.UserID,
		Password:      r.Password,
		Email:         r.Email,
		Age:           r.Age,
		ContactNumber: r.ContactNumber,
		City:          r.City,
		State:         r.State,
		Pincode:       r.Pincode,
	}
}

// Register is self-service sign-up, which only creates customers.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}
	if req.Role == "" {
		req.Role = string(domain.RoleCustomer)
	}
	if role, ok := domain.ParseRole(req.Role); ok && role == domain.RoleAdmin {
		writeError(c, fmt.Errorf("%w: admin accounts are created by admins", domain.ErrUnauthorized))
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) AdminCreateUser(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.auth.Register(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}
	token, u, err := h.auth.Login(c.Request.Context(), req.Role, req.UserID, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, UserID: u.UserID, Role: string(u.Role)})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentClaims(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) Categories(c *gin.Context) {
	out, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Subcategories(c *gin.Context) {
	out, err := h.catalog.Subcategories(c.Request.Context(), c.Param("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AvailableProducts(c *gin.Context) {
	out, err := h.catalog.AvailableProducts(c.Request.Context(), c.Query("category"), c.Query("subcategory"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		ActingUserID: currentClaims(c).Subject,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	out, err := h.orders.ListOrdersForUser(c.Request.Context(), currentClaims(c).Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListMyActiveOrders(c *gin.Context) {
	out, err := h.orders.ActiveOrdersForUser(c.Request.Context(), currentClaims(c).Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.orders.UpdateOrder(c.Request.Context(), id, currentClaims(c).Subject, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.orders.CancelOrder(c.Request.Context(), id, currentClaims(c).Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminPlaceOrder(c *gin.Context) {
	var req AdminPlaceOrderRequest
	if !bind(c, &req) {
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		CustomerUserID: req.CustomerUserID,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	out, err := h.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminListProducts(c *gin.Context) {
	out, err := h.catalog.ListProducts(c.Request.Context(), c.Query("category"), c.Query("subcategory"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminAddProduct(c *gin.Context) {
	var req AddProductRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.catalog.AddProduct(c.Request.Context(), services.NewProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
