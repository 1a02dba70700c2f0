package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"FolioPull/internal/domain/models"

	"gopkg.in/yaml.v3"
)

type portfolioDocument struct {
	Investments []investmentRecord `json:"investments" yaml:"investments"`
}

type investmentRecord struct {
	Ticker        string `json:"ticker" yaml:"ticker"`
	Shares        amount `json:"shares" yaml:"shares"`
	PurchasePrice amount `json:"purchase_price" yaml:"purchase_price"`
}

// FilePortfolio loads holdings from a JSON or YAML portfolio definition.
type FilePortfolio struct {
	path string
}

// NewFilePortfolio creates a loader for path. The format follows the file
// extension: .yaml and .yml are YAML, everything else is JSON.
func NewFilePortfolio(path string) *FilePortfolio {
	return &FilePortfolio{path: path}
}

// Load reads the file. A missing or malformed file is an error; individual
// invalid records are returned as rejections.
func (p *FilePortfolio) Load(_ context.Context) ([]models.Holding, []models.Rejection, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("portfolio file %s not found: %w", p.path, err)
		}
		return nil, nil, fmt.Errorf("read portfolio: %w", err)
	}

	var doc portfolioDocument
	switch strings.ToLower(filepath.Ext(p.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &doc)
	default:
		err = json.Unmarshal(b, &doc)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse portfolio %s: %w", p.path, err)
	}

	holdings, rejections := parseInvestments(doc.Investments)
	return holdings, rejections, nil
}

func parseInvestments(recs []investmentRecord) ([]models.Holding, []models.Rejection) {
	holdings := make([]models.Holding, 0, len(recs))
	var rejections []models.Rejection

	for i, r := range recs {
		ticker := strings.ToUpper(strings.TrimSpace(r.Ticker))
		reject := func(reason string) {
			rejections = append(rejections, models.Rejection{Index: i, Ticker: ticker, Reason: reason})
		}

		if !r.Shares.present() {
			reject("shares is required")
			continue
		}
		shares, err := r.Shares.decimal()
		if err != nil {
			reject(fmt.Sprintf("shares %q is not a number", string(r.Shares)))
			continue
		}
		if !r.PurchasePrice.present() {
			reject("purchase_price is required")
			continue
		}
		price, err := r.PurchasePrice.decimal()
		if err != nil {
			reject(fmt.Sprintf("purchase_price %q is not a number", string(r.PurchasePrice)))
			continue
		}

		h, err := models.NewHolding(r.Ticker, shares, price)
		if err != nil {
			var ve *models.ValidationError
			if errors.As(err, &ve) {
				reject(ve.Reason)
			} else {
				reject(err.Error())
			}
			continue
		}
		holdings = append(holdings, h)
	}
	return holdings, rejections
}
