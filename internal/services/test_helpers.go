package services

import (
	"time"

	"pharmacy-service/internal/domain"

	"github.com/shopspring/decimal"
)

func CreateMockOrder(id, userID, productID uint64, quantity int, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func CreateMockProduct(id uint64, name string, stock int) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        name,
		Category:    TestCategory,
		Subcategory: TestSubcategory,
		Price:       decimal.RequireFromString(TestProductPrice),
		Stock:       stock,
	}
}

func CreateMockCustomer(id uint64, userID string) *domain.User {
	return &domain.User{
		ID:      id,
		UserID:  userID,
		Role:    domain.RoleCustomer,
		City:    "Pune",
		State:   "Maharashtra",
		Pincode: "411001",
	}
}

const (
	TestProductID    = uint64(1)
	TestOrderID      = uint64(1)
	TestCustomerPK   = uint64(7)
	TestCustomerID   = "alice"
	TestProductName  = "Paracetamol 500mg"
	TestProductPrice = "25.50"
	TestCategory     = "Medicines"
	TestSubcategory  = "Pain Relief"
)
