// Package inventory хранит каталог товаров и распределяет заказ по складским партиям.
package inventory

import (
	"fmt"
	"time"

	"github.com/mmeshcher/convenience-store/internal/model"
)

// Lots объединяет промо-партию и обычную партию одного товара.
// Любая из партий может отсутствовать.
type Lots struct {
	Promotional *model.Product
	Normal      *model.Product
}

// PromotionalStock возвращает остаток промо-партии.
func (l Lots) PromotionalStock() int {
	if l.Promotional == nil {
		return 0
	}
	return l.Promotional.Stock
}

// NormalStock возвращает остаток обычной партии.
func (l Lots) NormalStock() int {
	if l.Normal == nil {
		return 0
	}
	return l.Normal.Stock
}

// TotalStock возвращает суммарный остаток обеих партий.
func (l Lots) TotalStock() int {
	return l.PromotionalStock() + l.NormalStock()
}

// Price возвращает цену товара.
func (l Lots) Price() int {
	if l.Normal != nil {
		return l.Normal.Price
	}
	return l.Promotional.Price
}

// Catalog владеет записями о товарах и правилами акций на всё время работы процесса.
type Catalog struct {
	products   []*model.Product
	lots       map[string]*Lots
	promotions map[string]model.Promotion
}

// NewCatalog строит каталог и проверяет ссылочную целостность записей.
func NewCatalog(products []*model.Product, promotions []model.Promotion) (*Catalog, error) {
	c := &Catalog{
		products:   make([]*model.Product, 0, len(products)),
		lots:       make(map[string]*Lots, len(products)),
		promotions: make(map[string]model.Promotion, len(promotions)),
	}

	for _, p := range promotions {
		if _, exists := c.promotions[p.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate promotion %s", model.ErrInvalidPromotionDefinition, p.Name)
		}
		c.promotions[p.Name] = p
	}

	for _, p := range products {
		if p == nil {
			return nil, fmt.Errorf("%w: nil record", model.ErrInvalidProduct)
		}
		if err := c.add(p); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) add(p *model.Product) error {
	l, ok := c.lots[p.Name]
	if !ok {
		l = &Lots{}
		c.lots[p.Name] = l
	}

	if p.HasPromotion() {
		if _, known := c.promotions[p.Promotion]; !known {
			return fmt.Errorf("%w: %s refers to unknown promotion %s", model.ErrInvalidProduct, p.Name, p.Promotion)
		}
		if l.Promotional != nil {
			return fmt.Errorf("%w: %s has two promotional lots", model.ErrInvalidProduct, p.Name)
		}
		l.Promotional = p
	} else {
		if l.Normal != nil {
			return fmt.Errorf("%w: %s has two normal lots", model.ErrInvalidProduct, p.Name)
		}
		l.Normal = p
	}

	if l.Promotional != nil && l.Normal != nil && l.Promotional.Price != l.Normal.Price {
		return fmt.Errorf("%w: %s lots disagree on price", model.ErrInvalidProduct, p.Name)
	}

	c.products = append(c.products, p)
	return nil
}

// Products возвращает копии всех записей в порядке загрузки.
func (c *Catalog) Products() []model.Product {
	res := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		res = append(res, *p)
	}
	return res
}

// Lookup возвращает партии товара по названию.
func (c *Catalog) Lookup(name string) (Lots, error) {
	l, ok := c.lots[name]
	if !ok {
		return Lots{}, fmt.Errorf("%w: %s", model.ErrProductNotFound, name)
	}
	return *l, nil
}

// Promotion возвращает правило акции по названию.
func (c *Catalog) Promotion(name string) (model.Promotion, bool) {
	p, ok := c.promotions[name]
	return p, ok
}

// Price возвращает цену товара по названию.
func (c *Catalog) Price(name string) (int, error) {
	l, err := c.Lookup(name)
	if err != nil {
		return 0, err
	}
	return l.Price(), nil
}

// HasPromotion сообщает, есть ли у товара промо-партия со ссылкой на акцию.
func (c *Catalog) HasPromotion(name string) bool {
	l, ok := c.lots[name]
	return ok && l.Promotional != nil
}

// HasValidPromotion сообщает, что акция промо-партии товара действует в момент now,
// даже если промо-партия уже распродана.
func (c *Catalog) HasValidPromotion(name string, now time.Time) bool {
	l, ok := c.lots[name]
	if !ok || l.Promotional == nil {
		return false
	}
	promo, ok := c.promotions[l.Promotional.Promotion]
	return ok && promo.IsValid(now)
}

func (c *Catalog) activePromotion(l Lots, now time.Time) (model.Promotion, bool) {
	if l.Promotional == nil || l.Promotional.Stock <= 0 {
		return model.Promotion{}, false
	}
	promo, ok := c.promotions[l.Promotional.Promotion]
	if !ok || !promo.IsValid(now) {
		return model.Promotion{}, false
	}
	return promo, true
}

// Resolve возвращает «активную» запись товара: промо-партию при действующей акции
// и ненулевом остатке, иначе обычную партию.
func (c *Catalog) Resolve(name string, now time.Time) (*model.Product, error) {
	l, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	if _, ok := c.activePromotion(l, now); ok {
		return l.Promotional, nil
	}
	if l.Normal != nil {
		return l.Normal, nil
	}
	return l.Promotional, nil
}
