package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgcron "github.com/inkstone-app/inkstone/internal/pkg/cron"
	"github.com/inkstone-app/inkstone/internal/pkg/response"
)

// registerJobRoutes exposes the background jobs: list them, inspect one, and
// trigger a run out of schedule.
func registerJobRoutes(api *gin.RouterGroup, authMW gin.HandlerFunc, sched *pkgcron.Scheduler) {
	jobs := api.Group("/jobs", authMW)

	jobs.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": sched.List()})
	})

	jobs.GET("/:name", func(c *gin.Context) {
		snap, err := sched.Get(c.Param("name"))
		if err != nil {
			response.NotFound(c)
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	jobs.POST("/:name/run", func(c *gin.Context) {
		snap, err := sched.Run(c.Request.Context(), c.Param("name"))
		if err != nil {
			response.NotFound(c)
			return
		}
		c.JSON(http.StatusOK, snap)
	})
}
