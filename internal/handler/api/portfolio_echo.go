package api

import (
	"bytes"
	"net/http"
	"sort"
	"strings"
	"time"

	"FolioPull/internal/domain/models"
	"FolioPull/internal/render"
	"FolioPull/internal/service/metrics"
	"FolioPull/internal/service/ratelimit"
	"FolioPull/internal/usecase"
	xhttp "FolioPull/pkg/http"
	xlogger "FolioPull/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PortfolioEchoHandler serves the latest cycle as an HTML page, a CSV download
// and a JSON API, plus watchlist quotes.
type PortfolioEchoHandler struct {
	logger *xlogger.Logger
	latest *usecase.LatestCycle
	quotes *usecase.QuoteService
	rl     *ratelimit.Limiter
}

func NewPortfolioEchoHandler(logger *xlogger.Logger, latest *usecase.LatestCycle, quotes *usecase.QuoteService) *PortfolioEchoHandler {
	metrics.Register()
	return &PortfolioEchoHandler{logger: logger, latest: latest, quotes: quotes, rl: ratelimit.New()}
}

func (h *PortfolioEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Page)
	e.GET("/download", h.Download)
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/portfolio", h.Portfolio)
	g.GET("/holdings/:ticker", h.Holding)
	g.GET("/quotes", h.Quotes)
}

func (h *PortfolioEchoHandler) Page(c echo.Context) error {
	defer observe("page", time.Now())

	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, h.latest.Get()); err != nil {
		h.fail("page", "render page failed", err)
		return xhttp.InternalServerErrorResponse(c)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *PortfolioEchoHandler) Download(c echo.Context) error {
	defer observe("download", time.Now())

	cycle := h.latest.Get()
	if cycle == nil {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("no refresh cycle has completed yet"))
	}
	var buf bytes.Buffer
	if err := render.WriteCSV(&buf, cycle); err != nil {
		h.fail("download", "render csv failed", err)
		return xhttp.InternalServerErrorResponse(c)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="portfolio_data.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *PortfolioEchoHandler) Health(c echo.Context) error {
	body := map[string]interface{}{"status": "ok"}
	if cycle := h.latest.Get(); cycle != nil {
		body["last_cycle"] = cycle.At
		body["evaluated"] = len(cycle.Holdings)
		body["omitted"] = len(cycle.Omissions)
	}
	return c.JSON(http.StatusOK, body)
}

func (h *PortfolioEchoHandler) Portfolio(c echo.Context) error {
	defer observe("portfolio", time.Now())

	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cycle, err := h.current()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	out := *cycle
	out.Holdings = sortHoldings(cycle.Holdings, req.Sort, req.Order == "asc")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, out)
}

func (h *PortfolioEchoHandler) Holding(c echo.Context) error {
	defer observe("holding", time.Now())

	req := &models.HoldingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))

	cycle, err := h.current()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	if p, ok := cycle.Holding(ticker); ok {
		return xhttp.SuccessResponse(c, p)
	}
	for _, o := range cycle.Omissions {
		if o.Ticker == ticker {
			return xhttp.AppErrorResponse(c, xhttp.UnavailableError(o.Error()).WithParam("reason", o.Reason))
		}
	}
	return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("ticker %s is not in the portfolio", ticker))
}

func (h *PortfolioEchoHandler) Quotes(c echo.Context) error {
	defer observe("quotes", time.Now())

	req := &models.QuotesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":quotes", 5, 1) {
		h.logger.Warn("quotes rate_limited", xlogger.String("remote", c.RealIP()))
		metrics.APIErrors.WithLabelValues("quotes").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
	}

	var symbols []string
	if req.Symbols != "" {
		symbols = strings.Split(req.Symbols, ",")
	}
	return xhttp.SuccessResponse(c, h.quotes.Quotes(c.Request().Context(), symbols))
}

// current returns the latest non-empty cycle, or an AppError for the web layer.
func (h *PortfolioEchoHandler) current() (*models.Cycle, error) {
	cycle := h.latest.Get()
	if cycle == nil {
		return nil, xhttp.UnavailableError("no refresh cycle has completed yet")
	}
	if cycle.Empty() {
		return nil, xhttp.UnavailableError("no portfolio data available").
			WithError(models.ErrEmptyAggregate).
			WithParam("omitted", len(cycle.Omissions))
	}
	return cycle, nil
}

func (h *PortfolioEchoHandler) fail(endpoint, msg string, err error) {
	metrics.APIErrors.WithLabelValues(endpoint).Inc()
	h.logger.Error(msg, xlogger.String("endpoint", endpoint), xlogger.Error(err))
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// sortHoldings returns a sorted copy. Undefined metrics always sort last.
func sortHoldings(in []models.HoldingPerformance, by string, asc bool) []models.HoldingPerformance {
	out := append([]models.HoldingPerformance(nil), in...)
	if by == "" || by == "none" {
		return out
	}
	if by == "ticker" {
		sort.SliceStable(out, func(i, j int) bool {
			if asc {
				return out[i].Ticker < out[j].Ticker
			}
			return out[i].Ticker > out[j].Ticker
		})
		return out
	}

	key := func(p models.HoldingPerformance) decimal.NullDecimal {
		switch by {
		case "value":
			return decimal.NewNullDecimal(p.CurrentValue)
		case "gain":
			return p.GainLossPercent
		case "daily":
			return p.DailyChangePercent
		case "ytd":
			return p.YTDChange
		}
		return decimal.NullDecimal{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(out[i]), key(out[j])
		if !a.Valid || !b.Valid {
			return a.Valid && !b.Valid
		}
		if asc {
			return a.Decimal.LessThan(b.Decimal)
		}
		return a.Decimal.GreaterThan(b.Decimal)
	})
	return out
}
