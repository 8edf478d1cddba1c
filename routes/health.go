package routes

import (
	"context"
	"net/http"

	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/metrics"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthRoutes struct {
	db Pinger
}

func AddHealthCheckRoutes(group *gin.RouterGroup, db Pinger) {
	routes := healthRoutes{db}
	health := group.Group("/health")
	health.GET("", util.HandlerWrapper(AliveCheck, &util.HandlerOpts{}))
	health.GET("/ready", util.HandlerWrapper(routes.readyCheck, &util.HandlerOpts{}))
}

func AddMetricsRoutes(group *gin.RouterGroup) {
	group.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func AliveCheck(c *gin.Context) (interface{}, *util.HTTPError) {
	return nil, nil
}

func (hr *healthRoutes) readyCheck(c *gin.Context) (interface{}, *util.HTTPError) {
	if err := hr.db.PingContext(c); err != nil {
		logging.Component("health").WithError(err).Error("database ping failed")
		return nil, &util.HTTPError{
			Status:  http.StatusServiceUnavailable,
			Message: "database unavailable",
		}
	}
	return gin.H{"database": "ok"}, nil
}
