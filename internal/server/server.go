package server

import (
	"github.com/AshtonOli/Multi-Asset-Analysis/internal/portfolio"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes the portfolio store to the presentation layer as JSON.
type Server struct {
	store *portfolio.Store
	log   *zap.SugaredLogger
}

// New builds the gin engine with all portfolio routes registered.
func New(store *portfolio.Store, log *zap.SugaredLogger) (*Server, *gin.Engine) {
	s := &Server{store: store, log: log}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/summary", s.getSummary)
		v1.GET("/symbols", s.listSymbols)
		v1.POST("/symbols", s.addSymbol)
		v1.DELETE("/symbols/:symbol", s.removeSymbol)
		v1.POST("/symbols/:symbol/refresh", s.updateSymbol)
		v1.GET("/symbols/:symbol/elements/:field", s.getElement)
		v1.PUT("/symbols/:symbol/elements/:field", s.setElement)
		v1.GET("/symbols/:symbol/series.csv", s.exportSeries)
		v1.POST("/refresh", s.updateAll)
		v1.GET("/combined", s.getCombined)
		v1.GET("/performance", s.getPerformance)
	}
	return s, engine
}
