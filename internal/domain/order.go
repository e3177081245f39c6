package domain

import "time"

type OrderStatus string

const (
	StatusPlaced    OrderStatus = "Placed"
	StatusUpdated   OrderStatus = "Updated"
	StatusCancelled OrderStatus = "Cancelled"
)

// orderTransitions lists the statuses each status may move to. Cancelled is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:    {StatusUpdated, StatusCancelled},
	StatusUpdated:   {StatusUpdated, StatusCancelled},
	StatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ShippingAddress struct {
	City    string `json:"city" gorm:"column:shipping_city;size:100"`
	State   string `json:"state" gorm:"column:shipping_state;size:100"`
	Pincode string `json:"pincode" gorm:"column:shipping_pincode;size:20"`
}

type Order struct {
	ID        uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64          `json:"userId" gorm:"not null;index"`
	ProductID uint64          `json:"productId" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null;check:chk_orders_quantity,quantity > 0"`
	Status    OrderStatus     `json:"status" gorm:"size:20;not null;default:'Placed';check:chk_orders_status,status IN ('Placed','Updated','Cancelled')"`
	Shipping  ShippingAddress `json:"shipping" gorm:"embedded"`
	CreatedAt time.Time       `json:"requestedDate" gorm:"column:requested_date;autoCreateTime;<-:create"`

	Product *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// NewOrder builds a Placed order that snapshots the customer's current shipping profile.
func NewOrder(customer *User, productID uint64, quantity int, now time.Time) *Order {
	return &Order{
		UserID:    customer.ID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    StatusPlaced,
		Shipping:  customer.ShippingProfile(),
		CreatedAt: now,
	}
}

func (o *Order) OwnedBy(userID uint64) bool {
	return o.UserID == userID
}

// ChangeQuantity moves the order to Updated with the new quantity and returns how much
// additional stock it reserves. A negative delta means stock is handed back.
func (o *Order) ChangeQuantity(quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if !o.Status.CanTransitionTo(StatusUpdated) {
		return 0, ErrAlreadyCancelled
	}
	delta := quantity - o.Quantity
	o.Quantity = quantity
	o.Status = StatusUpdated
	return delta, nil
}

// Cancel marks the order Cancelled and returns the quantity to put back in stock.
func (o *Order) Cancel() (int, error) {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return 0, ErrAlreadyCancelled
	}
	o.Status = StatusCancelled
	return o.Quantity, nil
}

// OrderView is an order joined with the names the listings display.
type OrderView struct {
	ID          uint64          `json:"id"`
	UserID      string          `json:"userId"`
	ProductID   uint64          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Status      OrderStatus     `json:"status"`
	Shipping    ShippingAddress `json:"shipping" gorm:"embedded"`
	CreatedAt   time.Time       `json:"requestedDate" gorm:"column:requested_date"`
}
