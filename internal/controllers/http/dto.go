package http

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Role          string `json:"role"`
	UserID        string `json:"userId" binding:"required,max=50"`
	Password      string `json:"password" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
	Age           int    `json:"age" binding:"gte=0"`
	ContactNumber string `json:"contactNumber" binding:"max=15"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode" binding:"max=10"`
}

type LoginRequest struct {
	Role     string `json:"role" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type PlaceOrderRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type AdminPlaceOrderRequest struct {
	CustomerUserID string `json:"customerUserId" binding:"required"`
	ProductID      uint64 `json:"productId" binding:"required"`
	Quantity       int    `json:"quantity"`
}

type UpdateOrderRequest struct {
	Quantity int `json:"quantity"`
}

type AddProductRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Category    string          `json:"category" binding:"required,max=50"`
	Subcategory string          `json:"subcategory" binding:"required,max=50"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"gte=0"`
}
