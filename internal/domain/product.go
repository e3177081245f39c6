package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:100;not null;uniqueIndex:idx_products_identity"`
	Category    string          `json:"category" gorm:"size:50;not null;uniqueIndex:idx_products_identity;index"`
	Subcategory string          `json:"subcategory" gorm:"size:50;not null;uniqueIndex:idx_products_identity"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;check:chk_products_stock,stock >= 0"`
}

func (p *Product) Available() bool {
	return p.Stock > 0
}

// Covers reports whether the product can supply quantity more units.
func (p *Product) Covers(quantity int) bool {
	return p.Stock >= quantity
}
