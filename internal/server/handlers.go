package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/AshtonOli/Multi-Asset-Analysis/internal/model"
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/portfolio"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	var pErr *portfolio.ProviderError
	switch {
	case errors.Is(err, portfolio.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, portfolio.ErrDuplicateSymbol):
		return http.StatusConflict
	case errors.Is(err, portfolio.ErrUnknownField):
		return http.StatusBadRequest
	case errors.As(err, &pErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func parseInterval(c *gin.Context, raw string) (model.Interval, bool) {
	if raw == "" {
		raw = "1m"
	}
	iv, err := model.ParseInterval(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return iv, true
}

func (s *Server) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Summary())
}

func (s *Server) listSymbols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symbols": s.store.SymbolList()})
}

type addSymbolRequest struct {
	Symbol   string  `json:"symbol" binding:"required"`
	Units    float64 `json:"units"`
	Interval string  `json:"interval"`
}

func (s *Server) addSymbol(c *gin.Context) {
	var req addSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iv, ok := parseInterval(c, req.Interval)
	if !ok {
		return
	}
	if err := s.store.AddSymbol(c.Request.Context(), req.Symbol, req.Units, iv); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"symbol": model.NormalizeSymbol(req.Symbol)})
}

func (s *Server) removeSymbol(c *gin.Context) {
	if err := s.store.RemoveSymbol(c.Param("symbol")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateSymbolRequest struct {
	Units    *float64 `json:"units"`
	Interval string   `json:"interval"`
	Force    bool     `json:"force"`
}

func (s *Server) updateSymbol(c *gin.Context) {
	var req updateSymbolRequest
	// an empty body means "refresh with defaults"
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iv, ok := parseInterval(c, req.Interval)
	if !ok {
		return
	}
	if err := s.store.UpdateSymbol(c.Request.Context(), c.Param("symbol"), req.Units, iv, req.Force); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.store.Summary())
}

func (s *Server) getElement(c *gin.Context) {
	v, err := s.store.GetElement(c.Param("symbol"), c.Param("field"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": c.Param("field"), "value": v})
}

type setElementRequest struct {
	Value float64 `json:"value"`
}

func (s *Server) setElement(c *gin.Context) {
	var req setElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SetElement(c.Param("symbol"), c.Param("field"), req.Value); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) exportSeries(c *gin.Context) {
	series, err := s.store.SeriesSnapshot(c.Param("symbol"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s.csv", model.NormalizeSymbol(c.Param("symbol"))))
	if err := series.WriteCSV(c.Writer); err != nil {
		s.log.Errorw("csv export", "symbol", c.Param("symbol"), "error", err)
	}
}

type updateAllRequest struct {
	Interval string `json:"interval"`
	Force    bool   `json:"force"`
}

func (s *Server) updateAll(c *gin.Context) {
	var req updateAllRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iv, ok := parseInterval(c, req.Interval)
	if !ok {
		return
	}
	report := s.store.UpdateAll(c.Request.Context(), iv, req.Force)
	failed := make(map[string]string, len(report.Failed))
	for symbol, err := range report.Failed {
		failed[symbol] = err.Error()
	}
	c.JSON(http.StatusOK, gin.H{
		"batch_id":  report.ID.String(),
		"interval":  report.Interval,
		"refreshed": report.Refreshed,
		"skipped":   report.Skipped,
		"failed":    failed,
	})
}

// tableJSON renders the combined table with explicit nulls for missing
// cells, since NaN is not representable in JSON.
func tableJSON(t *model.Table) gin.H {
	columns := make(map[string][]*float64, len(t.Columns))
	for _, name := range t.Columns {
		vals, _ := t.Column(name)
		col := make([]*float64, len(vals))
		for i := range vals {
			if !model.IsMissing(vals[i]) {
				v := vals[i]
				col[i] = &v
			}
		}
		columns[name] = col
	}
	times := t.Times
	if times == nil {
		times = []model.BarTime{}
	}
	return gin.H{"times": times, "columns": columns}
}

func (s *Server) getCombined(c *gin.Context) {
	c.JSON(http.StatusOK, tableJSON(s.store.CombinedSeries()))
}

func (s *Server) getPerformance(c *gin.Context) {
	points := s.store.PerformanceSeries()
	resp := gin.H{"points": points}
	if metrics, err := portfolio.CalculateMetrics(points); err == nil {
		resp["metrics"] = metrics
	}
	c.JSON(http.StatusOK, resp)
}
