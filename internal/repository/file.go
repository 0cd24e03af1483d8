package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/convenience-store/internal/model"
)

// FileCatalog читает каталог из пары файлов products.md и promotions.md
// со строкой заголовка и полями через запятую.
type FileCatalog struct {
	productsPath   string
	promotionsPath string
	loc            *time.Location
}

// NewFileCatalog создаёт источник каталога из файлов.
func NewFileCatalog(productsPath, promotionsPath string) *FileCatalog {
	return &FileCatalog{
		productsPath:   productsPath,
		promotionsPath: promotionsPath,
		loc:            time.Local,
	}
}

// Load читает и проверяет записи каталога.
func (f *FileCatalog) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	promotions, err := readRows(f.promotionsPath, 5)
	if err != nil {
		return nil, fmt.Errorf("read promotions: %w", err)
	}
	products, err := readRows(f.productsPath, 4)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	promoRecords := make([]promotionRecord, 0, len(promotions))
	for _, row := range promotions {
		buy, errBuy := strconv.Atoi(row[1])
		get, errGet := strconv.Atoi(row[2])
		if err := errors.Join(errBuy, errGet); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrInvalidPromotionDefinition, row[0], err)
		}
		promoRecords = append(promoRecords, promotionRecord{
			Name:      row[0],
			Buy:       buy,
			Get:       get,
			StartDate: row[3],
			EndDate:   row[4],
		})
	}

	productRecords := make([]productRecord, 0, len(products))
	for _, row := range products {
		price, errPrice := strconv.Atoi(row[1])
		quantity, errQuantity := strconv.Atoi(row[2])
		if err := errors.Join(errPrice, errQuantity); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", model.ErrInvalidProduct, row[0], err)
		}
		productRecords = append(productRecords, productRecord{
			Name:      row[0],
			Price:     price,
			Quantity:  quantity,
			Promotion: row[3],
		})
	}

	return buildCatalog(productRecords, promoRecords, f.loc)
}

// readRows читает файл с заголовком и возвращает строки данных.
func readRows(path string, fields int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = fields
	r.TrimLeadingSpace = true

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// YAMLCatalog читает каталог из одного YAML-файла.
type YAMLCatalog struct {
	path string
	loc  *time.Location
}

type yamlDocument struct {
	Products   []productRecord   `yaml:"products"`
	Promotions []promotionRecord `yaml:"promotions"`
}

// NewYAMLCatalog создаёт источник каталога из YAML-файла.
func NewYAMLCatalog(path string) *YAMLCatalog {
	return &YAMLCatalog{path: path, loc: time.Local}
}

// Load читает и проверяет записи каталога.
func (y *YAMLCatalog) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(y.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", y.path, err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)

	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", y.path, err)
	}

	return buildCatalog(doc.Products, doc.Promotions, y.loc)
}
