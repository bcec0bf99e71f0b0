// Package server hosts the meta exchange HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderbookv1 "github.com/tilenkocbek/MetaExchange/internal/domain/orderbook/v1"
	"github.com/tilenkocbek/MetaExchange/internal/usecase/matching"
	"github.com/tilenkocbek/MetaExchange/pkg/errors"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
	"github.com/tilenkocbek/MetaExchange/pkg/util"
)

// VenueRecorder records venue ids arriving over the API.
type VenueRecorder interface {
	AddUpdateExchange(exchangeID string)
}

// Server exposes one matching manager over HTTP.
type Server struct {
	engine  *gin.Engine
	manager *matching.Manager
	venues  VenueRecorder
	logger  logger.Interface
}

// NewServer wires the routes. venues may be nil.
func NewServer(manager *matching.Manager, venues VenueRecorder, log logger.Interface) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:  engine,
		manager: manager,
		venues:  venues,
		logger:  log,
	}

	engine.Use(s.requestID())

	engine.GET("/health", s.health)

	meta := engine.Group("/meta-exchange")
	{
		meta.POST("/add-exchange-order", s.addExchangeOrder)
		meta.POST("/add-user-order", s.addUserOrder)
		meta.GET("/order-book", s.orderBook)
	}

	return s
}

// Handler returns the root HTTP handler, for mounting into an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestID threads an id through the request context so every log line of
// one request correlates. An incoming X-Request-Id header wins.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := util.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-Id"))
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-Id", util.GetRequestID(ctx))
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"pair":   s.manager.Pair(),
		"orders": s.manager.RestingOrders(),
	})
}

func (s *Server) addExchangeOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var eo orderbookv1.ExchangeOrder
	if err := c.ShouldBindJSON(&eo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.manager.AddExchangeOrder(ctx, eo)
	if err != nil {
		s.writeError(c, err)
		return
	}

	if s.venues != nil {
		s.venues.AddUpdateExchange(eo.ExchangeID)
	}

	c.JSON(http.StatusOK, order)
}

func (s *Server) addUserOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var uo orderbookv1.UserOrder
	if err := c.ShouldBindJSON(&uo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.manager.HandleUserOrder(ctx, uo)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) orderBook(c *gin.Context) {
	bids, asks := s.manager.BookSnapshot()
	if bids == nil {
		bids = []orderbookv1.OrderUpdate{}
	}
	if asks == nil {
		asks = []orderbookv1.OrderUpdate{}
	}

	c.JSON(http.StatusOK, gin.H{
		"pair": s.manager.Pair(),
		"bids": bids,
		"asks": asks,
	})
}

// writeError maps validation failures to 400 and everything else, including a
// corrupt book, to 500.
func (s *Server) writeError(c *gin.Context, err error) {
	s.logger.ErrorContext(c.Request.Context(), err)

	if details, ok := err.(*errors.ErrorDetails); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": details.Message,
			"code":  details.Code,
			"field": details.Field,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
