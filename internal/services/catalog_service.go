package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/repository"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type CatalogFile struct {
	Categories []struct {
		Name          string `yaml:"name"`
		Subcategories []struct {
			Name     string `yaml:"name"`
			Products []struct {
				Name  string `yaml:"name"`
				Price string `yaml:"price"`
				Stock int    `yaml:"stock"`
			} `yaml:"products"`
		} `yaml:"subcategories"`
	} `yaml:"categories"`
}

// ParseCatalog decodes a YAML catalog into products ready for insertion.
func ParseCatalog(data []byte) ([]domain.Product, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var out []domain.Product
	for _, c := range f.Categories {
		for _, sc := range c.Subcategories {
			for _, p := range sc.Products {
				price, err := decimal.NewFromString(p.Price)
				if err != nil {
					return nil, fmt.Errorf("parse catalog: price of %q: %w", p.Name, err)
				}
				out = append(out, domain.Product{
					Name:        p.Name,
					Category:    c.Name,
					Subcategory: sc.Name,
					Price:       price,
					Stock:       p.Stock,
				})
			}
		}
	}
	return out, nil
}

// LoadCatalog reads the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) ([]domain.Product, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

type NewProductInput struct {
	Name        string
	Category    string
	Subcategory string
	Price       decimal.Decimal
	Stock       int
}

type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	out, err := s.store.Products().Categories(ctx)
	return out, domain.Storage("list categories", err)
}

func (s *CatalogService) Subcategories(ctx context.Context, category string) ([]string, error) {
	out, err := s.store.Products().Subcategories(ctx, category)
	return out, domain.Storage("list subcategories", err)
}

// AvailableProducts lists what customers can order: products in stock.
func (s *CatalogService) AvailableProducts(ctx context.Context, category, subcategory string) ([]domain.Product, error) {
	out, err := s.store.Products().List(ctx, repository.ProductFilter{
		Category:      category,
		Subcategory:   subcategory,
		AvailableOnly: true,
	})
	return out, domain.Storage("list products", err)
}

func (s *CatalogService) ListProducts(ctx context.Context, category, subcategory string) ([]domain.Product, error) {
	out, err := s.store.Products().List(ctx, repository.ProductFilter{Category: category, Subcategory: subcategory})
	return out, domain.Storage("list products", err)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("get product", err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *CatalogService) AddProduct(ctx context.Context, in NewProductInput) (*domain.Product, error) {
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Subcategory: strings.TrimSpace(in.Subcategory),
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if p.Name == "" || p.Category == "" || p.Subcategory == "" {
		return nil, fmt.Errorf("%w: name, category and subcategory are required", domain.ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if p.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}

	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, domain.Storage("add product", err)
	}
	log.Printf("Product %d added: %s (%s / %s)", p.ID, p.Name, p.Category, p.Subcategory)
	return p, nil
}

// DeleteProduct removes a product no order refers to.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	err := s.store.Transaction(ctx, func(tx repository.Tx) error {
		p, err := tx.LockProduct(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		n, err := tx.CountOrdersForProduct(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrProductInUse
		}
		_, err = tx.DeleteProduct(ctx, id)
		return err
	})
	if err != nil {
		return domain.Storage("delete product", err)
	}
	log.Printf("Product %d deleted", id)
	return nil
}

// Seed inserts the given products, skipping any that already exist. It returns how many
// were inserted.
func (s *CatalogService) Seed(ctx context.Context, products []domain.Product) (int, error) {
	inserted := 0
	for i := range products {
		p := products[i]
		if err := s.store.Products().Create(ctx, &p); err != nil {
			if errors.Is(err, domain.ErrProductExists) {
				continue
			}
			return inserted, domain.Storage("seed catalog", err)
		}
		inserted++
	}
	return inserted, nil
}
