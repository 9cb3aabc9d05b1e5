// Package httpapi exposes stored trading results over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/metrics"
)

const dateLayout = time.DateOnly

// Querier is the read use case behind the handlers.
type Querier interface {
	LastTradingDates(ctx context.Context, amount int) ([]time.Time, error)
	Dynamics(ctx context.Context, filter domain.DynamicsFilter) ([]domain.TradingResult, error)
	LastResults(ctx context.Context, filter domain.TradingFilter) ([]domain.TradingResult, error)
}

// Handler serves the trading results endpoints with a response cache.
type Handler struct {
	query  Querier
	cache  *cache.Cache
	logger *slog.Logger
}

// NewHandler wires the query use case; a nil cache disables caching.
func NewHandler(query Querier, c *cache.Cache, log *slog.Logger) *Handler {
	return &Handler{query: query, cache: c, logger: log}
}

// resultView is the wire form of a stored result with calendar dates.
type resultView struct {
	ID                  int64   `json:"id"`
	ExchangeProductID   string  `json:"exchange_product_id"`
	ExchangeProductName string  `json:"exchange_product_name"`
	OilID               string  `json:"oil_id"`
	DeliveryBasisID     string  `json:"delivery_basis_id"`
	DeliveryBasisName   string  `json:"delivery_basis_name"`
	DeliveryTypeID      string  `json:"delivery_type_id"`
	Volume              string  `json:"volume"`
	Total               string  `json:"total"`
	Count               string  `json:"count"`
	Date                string  `json:"date"`
	CreatedOn           string  `json:"created_on"`
	UpdatedOn           *string `json:"updated_on"`
}

func toViews(results []domain.TradingResult) []resultView {
	views := make([]resultView, 0, len(results))
	for _, r := range results {
		v := resultView{
			ID:                  r.ID,
			ExchangeProductID:   r.ExchangeProductID,
			ExchangeProductName: r.ExchangeProductName,
			OilID:               r.OilID,
			DeliveryBasisID:     r.DeliveryBasisID,
			DeliveryBasisName:   r.DeliveryBasisName,
			DeliveryTypeID:      r.DeliveryTypeID,
			Volume:              r.Volume,
			Total:               r.Total,
			Count:               r.Count,
			Date:                r.Date.Format(dateLayout),
			CreatedOn:           r.CreatedOn.Format(dateLayout),
		}
		if r.UpdatedOn != nil {
			u := r.UpdatedOn.Format(dateLayout)
			v.UpdatedOn = &u
		}
		views = append(views, v)
	}
	return views
}

// LastDates handles GET /last_dates?amount=N.
func (h *Handler) LastDates(c *gin.Context) {
	h.cached(c, func() (gin.H, error) {
		amount, err := strconv.Atoi(c.DefaultQuery("amount", "1"))
		if err != nil {
			return nil, &domain.ValidationError{Field: "amount", Reason: "must be an integer"}
		}
		dates, err := h.query.LastTradingDates(c.Request.Context(), amount)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(dates))
		for _, d := range dates {
			out = append(out, d.Format(dateLayout))
		}
		return gin.H{"success": true, "last_trading_dates": out}, nil
	})
}

// Dynamics handles GET /dynamics?start_date&end_date plus optional filters.
func (h *Handler) Dynamics(c *gin.Context) {
	h.cached(c, func() (gin.H, error) {
		start, err := parseDate(c, "start_date")
		if err != nil {
			return nil, err
		}
		end, err := parseDate(c, "end_date")
		if err != nil {
			return nil, err
		}
		results, err := h.query.Dynamics(c.Request.Context(), domain.DynamicsFilter{
			TradingFilter: tradingFilter(c),
			Start:         start,
			End:           end,
		})
		if err != nil {
			return nil, err
		}
		return gin.H{"success": true, "dynamics": toViews(results)}, nil
	})
}

// LastResults handles GET /last_results with optional filters.
func (h *Handler) LastResults(c *gin.Context) {
	h.cached(c, func() (gin.H, error) {
		results, err := h.query.LastResults(c.Request.Context(), tradingFilter(c))
		if err != nil {
			return nil, err
		}
		return gin.H{"success": true, "last_trading_results": toViews(results)}, nil
	})
}

// cached answers from the cache by request URI or runs load and stores its payload.
func (h *Handler) cached(c *gin.Context, load func() (gin.H, error)) {
	key := c.Request.URL.RequestURI()
	if h.cache != nil {
		if payload, ok := h.cache.Get(key); ok {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			c.JSON(http.StatusOK, payload)
			return
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	payload, err := load()
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.cache != nil {
		h.cache.SetDefault(key, payload)
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if domain.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if h.logger != nil {
		h.logger.Error("query failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
}

func parseDate(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, &domain.ValidationError{Field: name, Reason: "is required"}
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: name, Reason: "must be YYYY-MM-DD"}
	}
	return d, nil
}

func tradingFilter(c *gin.Context) domain.TradingFilter {
	return domain.TradingFilter{
		OilID:           optional(c, "oil_id"),
		DeliveryTypeID:  optional(c, "delivery_type_id"),
		DeliveryBasisID: optional(c, "delivery_basis_id"),
	}
}

func optional(c *gin.Context, name string) *string {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return nil
	}
	return &v
}
