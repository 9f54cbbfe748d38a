package service

import (
	"context"
	"log"

	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/pkg/billing"
)

type starterService struct {
	code, name, category, unit, price string
	turnaround                        int
}

var starterServices = []starterService{
	{"WF-KG", "Wash & Fold", "Wash & Fold", "kg", "120.00", 24},
	{"WI-SHIRT", "Shirt wash & iron", "Wash & Iron", "piece", "150.00", 48},
	{"WI-TROUSER", "Trousers wash & iron", "Wash & Iron", "piece", "180.00", 48},
	{"DC-SUIT", "Suit (2 piece)", "Dry Cleaning", "piece", "800.00", 72},
	{"DC-DRESS", "Dress", "Dry Cleaning", "piece", "450.00", 72},
	{"DC-COAT", "Coat", "Dry Cleaning", "piece", "650.00", 72},
	{"IR-SHIRT", "Shirt press", "Ironing", "piece", "60.00", 24},
	{"HH-DUVET", "Duvet", "Household", "piece", "700.00", 72},
	{"HH-CURTAIN", "Curtains", "Household", "kg", "250.00", 96},
}

// StarterCatalogue returns the service list a new shop opens with
func StarterCatalogue() []entity.Product {
	products := make([]entity.Product, 0, len(starterServices))
	for _, s := range starterServices {
		price, err := billing.ParseAmount(s.price)
		if err != nil {
			log.Printf("Warning: bad seed price for %s: %v", s.code, err)
			continue
		}
		products = append(products, entity.Product{
			Code:            s.code,
			Name:            s.name,
			Category:        s.category,
			Unit:            s.unit,
			Price:           billing.ToCents(price),
			TurnaroundHours: s.turnaround,
			Active:          true,
		})
	}
	return products
}

// SeedCatalogue stores products only when the catalogue is empty and
// returns how many were added.
func (s *ProductService) SeedCatalogue(ctx context.Context, products []entity.Product) (int, error) {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || len(products) == 0 {
		return 0, nil
	}
	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return 0, err
	}
	return len(products), nil
}
