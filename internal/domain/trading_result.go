package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// minProductIDLength covers the oil (4), delivery basis (3) and delivery type (1) offsets.
const minProductIDLength = 8

// TradingResult is one persisted row of a daily oil products report.
type TradingResult struct {
	ID                  int64      `json:"id"`
	ExchangeProductID   string     `json:"exchange_product_id"`
	ExchangeProductName string     `json:"exchange_product_name"`
	OilID               string     `json:"oil_id"`
	DeliveryBasisID     string     `json:"delivery_basis_id"`
	DeliveryBasisName   string     `json:"delivery_basis_name"`
	DeliveryTypeID      string     `json:"delivery_type_id"`
	Volume              string     `json:"volume"`
	Total               string     `json:"total"`
	Count               string     `json:"count"`
	Date                time.Time  `json:"date"`
	CreatedOn           time.Time  `json:"created_on"`
	UpdatedOn           *time.Time `json:"updated_on"`
}

// NormalizedRow is a spreadsheet data row after the canonical column rename.
type NormalizedRow struct {
	ID                  int64
	ExchangeProductID   string
	ExchangeProductName string
	DeliveryBasisName   string
	Volume              string
	Total               string
	Count               string
}

// Table groups the normalized rows of one report file.
type Table struct {
	File string
	Rows []NormalizedRow
}

// NewTradingResult builds the storage entity from a normalized row.
// Volume, total and count keep their source text; they only have to parse as numbers.
func NewTradingResult(row NormalizedRow, date, createdOn time.Time) (TradingResult, error) {
	if row.ID <= 0 {
		return TradingResult{}, &RecordError{Field: "id", Reason: "must be positive"}
	}

	required := []struct {
		field string
		value string
	}{
		{"exchange_product_id", row.ExchangeProductID},
		{"exchange_product_name", row.ExchangeProductName},
		{"delivery_basis_name", row.DeliveryBasisName},
		{"volume", row.Volume},
		{"total", row.Total},
		{"count", row.Count},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return TradingResult{}, &RecordError{ID: row.ID, Field: r.field, Reason: "is empty"}
		}
	}

	for _, r := range required[3:] {
		if _, err := decimal.NewFromString(strings.TrimSpace(r.value)); err != nil {
			return TradingResult{}, &RecordError{ID: row.ID, Field: r.field, Reason: "is not numeric: " + r.value}
		}
	}

	if date.IsZero() {
		return TradingResult{}, &RecordError{ID: row.ID, Field: "date", Reason: "is not set"}
	}

	oilID, basisID, typeID, err := SplitProductID(row.ExchangeProductID)
	if err != nil {
		return TradingResult{}, err
	}

	return TradingResult{
		ID:                  row.ID,
		ExchangeProductID:   row.ExchangeProductID,
		ExchangeProductName: row.ExchangeProductName,
		OilID:               oilID,
		DeliveryBasisID:     basisID,
		DeliveryBasisName:   row.DeliveryBasisName,
		DeliveryTypeID:      typeID,
		Volume:              row.Volume,
		Total:               row.Total,
		Count:               row.Count,
		Date:                date,
		CreatedOn:           createdOn,
	}, nil
}

// SplitProductID derives oil, delivery basis and delivery type codes from an
// exchange product id such as A592ANK060F.
func SplitProductID(productID string) (oilID, deliveryBasisID, deliveryTypeID string, err error) {
	if len(productID) < minProductIDLength {
		return "", "", "", &RecordError{Field: "exchange_product_id", Reason: "too short: " + productID}
	}
	return productID[:4], productID[4:7], productID[len(productID)-1:], nil
}
