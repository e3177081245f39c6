package services

import (
	"context"
	"log"
	"time"

	"pharmacy-service/internal/domain"
	rabbit "pharmacy-service/internal/infra/rabbitmq"
	"pharmacy-service/internal/repository"
)

type PlaceOrderInput struct {
	// ActingUserID is the customer placing the order for themselves. Empty when an admin
	// places the order, in which case CustomerUserID names the customer.
	ActingUserID   string
	CustomerUserID string
	ProductID      uint64
	Quantity       int
}

// OrderService keeps orders and product stock consistent. Every operation that touches
// stock runs as one transaction holding row locks on the rows it checks.
type OrderService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	now       func() time.Time
}

func NewOrderService(store repository.Store, pub rabbit.PublisherInterface) *OrderService {
	if pub == nil {
		pub = rabbit.NopPublisher{}
	}
	return &OrderService{
		store:     store,
		publisher: pub,
		now:       time.Now,
	}
}

func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*domain.Order, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	customerID := in.ActingUserID
	if customerID == "" {
		customerID = in.CustomerUserID
	}

	var order *domain.Order
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		product, err := tx.LockProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if !product.Covers(in.Quantity) {
			return &domain.InsufficientStockError{ProductID: product.ID, Requested: in.Quantity, Available: product.Stock}
		}

		if customerID == "" {
			return domain.ErrCustomerNotFound
		}
		customer, err := tx.FindUser(ctx, customerID)
		if err != nil {
			return err
		}
		// orders belong to customers; an admin account never owns one
		if customer == nil || customer.Role != domain.RoleCustomer {
			return domain.ErrCustomerNotFound
		}

		order = domain.NewOrder(customer, product.ID, in.Quantity, s.now())
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		return tx.AdjustStock(ctx, product.ID, -in.Quantity)
	})
	if err != nil {
		return nil, domain.Storage("place order", err)
	}

	log.Printf("Order %d placed: user=%s product=%d qty=%d", order.ID, customerID, order.ProductID, order.Quantity)
	s.publish(ctx, domain.EventOrderPlaced, order, -order.Quantity)
	return order, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, orderID uint64, actingUserID string, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var (
		order *domain.Order
		delta int
	)
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		var err error
		order, err = s.lockOwnedOrder(ctx, tx, orderID, actingUserID)
		if err != nil {
			return err
		}

		delta, err = order.ChangeQuantity(quantity)
		if err != nil {
			return err
		}

		product, err := tx.LockProduct(ctx, order.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		// Only the increase has to be covered; what the order already holds was
		// taken out of stock when it was reserved.
		if delta > 0 && !product.Covers(delta) {
			return &domain.InsufficientStockError{ProductID: product.ID, Requested: delta, Available: product.Stock}
		}

		if err := tx.UpdateOrderStatusAndQuantity(ctx, order); err != nil {
			return err
		}
		return tx.AdjustStock(ctx, product.ID, -delta)
	})
	if err != nil {
		return nil, domain.Storage("update order", err)
	}

	log.Printf("Order %d updated: qty=%d delta=%d", order.ID, order.Quantity, delta)
	s.publish(ctx, domain.EventOrderUpdated, order, -delta)
	return order, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID uint64, actingUserID string) (*domain.Order, error) {
	var (
		order    *domain.Order
		restored int
	)
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		var err error
		order, err = s.lockOwnedOrder(ctx, tx, orderID, actingUserID)
		if err != nil {
			return err
		}

		restored, err = order.Cancel()
		if err != nil {
			return err
		}
		if err := tx.UpdateOrderStatusAndQuantity(ctx, order); err != nil {
			return err
		}
		return tx.AdjustStock(ctx, order.ProductID, restored)
	})
	if err != nil {
		return nil, domain.Storage("cancel order", err)
	}

	log.Printf("Order %d cancelled: %d units returned to product %d", order.ID, restored, order.ProductID)
	s.publish(ctx, domain.EventOrderCancelled, order, restored)
	return order, nil
}

// lockOwnedOrder locks the order row and checks that actingUserID owns it.
func (s *OrderService) lockOwnedOrder(ctx context.Context, tx repository.Tx, orderID uint64, actingUserID string) (*domain.Order, error) {
	order, err := tx.LockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	actor, err := tx.FindUser(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !order.OwnedBy(actor.ID) {
		return nil, domain.ErrOrderNotOwned
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.OrderView, error) {
	o, err := s.store.Orders().FindViewByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("get order", err)
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]domain.OrderView, error) {
	orders, err := s.store.Orders().ListByUser(ctx, userID, false)
	return orders, domain.Storage("list orders", err)
}

// ActiveOrdersForUser lists the orders that can still be updated or cancelled.
func (s *OrderService) ActiveOrdersForUser(ctx context.Context, userID string) ([]domain.OrderView, error) {
	orders, err := s.store.Orders().ListByUser(ctx, userID, true)
	return orders, domain.Storage("list active orders", err)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]domain.OrderView, error) {
	orders, err := s.store.Orders().ListAll(ctx)
	return orders, domain.Storage("list all orders", err)
}

// publish runs after commit. The order is already durable, so a broker failure is only logged.
func (s *OrderService) publish(ctx context.Context, pattern string, order *domain.Order, stockDelta int) {
	evt := domain.NewOrderEvent(order, stockDelta, s.now())
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		log.Printf("Failed to publish %s event for order %d: %v", pattern, order.ID, err)
	}
}
