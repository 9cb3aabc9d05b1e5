package storage

import (
	sq "github.com/Masterminds/squirrel"

	"SpimexTradingResults/internal/domain"
)

const resultsTable = "spimex_trading_results"

var resultColumns = []string{
	"id",
	"exchange_product_id",
	"exchange_product_name",
	"oil_id",
	"delivery_basis_id",
	"delivery_basis_name",
	"delivery_type_id",
	"volume",
	"total",
	"count",
	"date",
	"created_on",
	"updated_on",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func maxDateQuery() sq.SelectBuilder {
	return psql.Select("MAX(date)").From(resultsTable)
}

func existingIDsQuery() sq.SelectBuilder {
	return psql.Select("id").From(resultsTable)
}

func lastDatesQuery(amount int) sq.SelectBuilder {
	return psql.Select("date").
		From(resultsTable).
		GroupBy("date").
		OrderBy("date DESC").
		Limit(uint64(amount))
}

func dynamicsQuery(filter domain.DynamicsFilter) sq.SelectBuilder {
	q := psql.Select(resultColumns...).
		From(resultsTable).
		Where(sq.GtOrEq{"date": filter.Start}).
		Where(sq.LtOrEq{"date": filter.End})
	return withTradingFilter(q, filter.TradingFilter).OrderBy("date", "id")
}

func lastResultsQuery(filter domain.TradingFilter) sq.SelectBuilder {
	q := psql.Select(resultColumns...).
		From(resultsTable).
		Where("date = (SELECT MAX(date) FROM " + resultsTable + ")")
	return withTradingFilter(q, filter).OrderBy("id")
}

// withTradingFilter applies only the filter fields that are set.
func withTradingFilter(q sq.SelectBuilder, f domain.TradingFilter) sq.SelectBuilder {
	eq := sq.Eq{}
	if f.OilID != nil {
		eq["oil_id"] = *f.OilID
	}
	if f.DeliveryTypeID != nil {
		eq["delivery_type_id"] = *f.DeliveryTypeID
	}
	if f.DeliveryBasisID != nil {
		eq["delivery_basis_id"] = *f.DeliveryBasisID
	}
	if len(eq) == 0 {
		return q
	}
	return q.Where(eq)
}

func resultRow(r domain.TradingResult) []interface{} {
	var updated interface{}
	if r.UpdatedOn != nil {
		updated = *r.UpdatedOn
	}
	return []interface{}{
		r.ID,
		r.ExchangeProductID,
		r.ExchangeProductName,
		r.OilID,
		r.DeliveryBasisID,
		r.DeliveryBasisName,
		r.DeliveryTypeID,
		r.Volume,
		r.Total,
		r.Count,
		r.Date,
		r.CreatedOn,
		updated,
	}
}
