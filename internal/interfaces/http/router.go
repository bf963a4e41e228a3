package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	savingHandler "finsim/internal/interfaces/http/handlers/saving"
	"finsim/internal/interfaces/http/middleware"
	"finsim/internal/shared/logger"
)

type Router struct {
	engine        *gin.Engine
	savingHandler *savingHandler.Handler
	logger        logger.Interface
}

func NewRouter(deps savingHandler.Deps, log logger.Interface) *Router {
	return &Router{
		engine:        gin.New(),
		savingHandler: savingHandler.NewHandler(deps, log),
		logger:        log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery(r.logger))
	r.engine.Use(middleware.RequestID(uuid.NewString))
	r.engine.Use(middleware.Logger(r.logger))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.setupSavingRoutes()
	r.setupInternalRoutes()
}

// setupSavingRoutes configures the user-facing savings routes
func (r *Router) setupSavingRoutes() {
	savings := r.engine.Group("/api/v1/savings")
	savings.GET("/quotes", r.savingHandler.Quote)

	owned := savings.Group("")
	owned.Use(middleware.UserIdentity(r.logger))
	{
		owned.POST("/subscriptions", r.savingHandler.OpenSubscription)
		owned.GET("/subscriptions/:id", r.savingHandler.GetSubscription)
		owned.POST("/subscriptions/:id/cancel", r.savingHandler.CancelSubscription)
		owned.POST("/subscriptions/:id/deposits", r.savingHandler.Deposit)
		owned.POST("/subscriptions/:id/settlement", r.savingHandler.Settle)
		owned.GET("/maturities", r.savingHandler.ListPendingMaturities)
	}
}

// setupInternalRoutes exposes operator triggers. The gateway must not
// route public traffic here.
func (r *Router) setupInternalRoutes() {
	internal := r.engine.Group("/api/v1/savings/internal")
	internal.POST("/autodebit/users/:user_id", r.savingHandler.RunAutoDebit)
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
