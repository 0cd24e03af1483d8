// Package repository загружает каталог товаров и акций из внешних источников.
package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmeshcher/convenience-store/internal/model"
)

// noPromotion отмечает в исходных данных запись без акции.
const noPromotion = "null"

const dateLayout = time.DateOnly

// Catalog содержит проверенные записи, загруженные из источника.
type Catalog struct {
	Products   []*model.Product
	Promotions []model.Promotion
}

// productRecord описывает запись о товаре в исходном виде.
type productRecord struct {
	Name      string `yaml:"name"`
	Price     int    `yaml:"price"`
	Quantity  int    `yaml:"quantity"`
	Promotion string `yaml:"promotion"`
}

// promotionRecord описывает запись об акции в исходном виде.
type promotionRecord struct {
	Name      string `yaml:"name"`
	Buy       int    `yaml:"buy"`
	Get       int    `yaml:"get"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Kind      string `yaml:"kind"`
}

func (r productRecord) toProduct() (*model.Product, error) {
	promotion := strings.TrimSpace(r.Promotion)
	if strings.EqualFold(promotion, noPromotion) {
		promotion = ""
	}
	return model.NewProduct(r.Name, r.Price, r.Quantity, promotion)
}

func (r promotionRecord) toPromotion(loc *time.Location) (model.Promotion, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(r.StartDate), loc)
	if err != nil {
		return model.Promotion{}, fmt.Errorf("%w: %s start date: %w", model.ErrInvalidPromotionDefinition, r.Name, err)
	}
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(r.EndDate), loc)
	if err != nil {
		return model.Promotion{}, fmt.Errorf("%w: %s end date: %w", model.ErrInvalidPromotionDefinition, r.Name, err)
	}

	p, err := model.NewPromotion(r.Name, r.Buy, r.Get, start, model.EndOfDay(end))
	if err != nil {
		return model.Promotion{}, err
	}

	if r.Kind != "" {
		kind, err := model.ParsePromotionKind(r.Kind)
		if err != nil {
			return model.Promotion{}, err
		}
		p.Kind = kind
	}
	return p, nil
}

func buildCatalog(products []productRecord, promotions []promotionRecord, loc *time.Location) (*Catalog, error) {
	c := &Catalog{
		Products:   make([]*model.Product, 0, len(products)),
		Promotions: make([]model.Promotion, 0, len(promotions)),
	}

	for _, r := range promotions {
		p, err := r.toPromotion(loc)
		if err != nil {
			return nil, err
		}
		c.Promotions = append(c.Promotions, p)
	}

	for _, r := range products {
		p, err := r.toProduct()
		if err != nil {
			return nil, err
		}
		c.Products = append(c.Products, p)
	}

	return c, nil
}
