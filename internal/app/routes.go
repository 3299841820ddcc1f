package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkstone-app/inkstone/internal/middleware"
	"github.com/inkstone-app/inkstone/internal/modules/document"
	jwtpkg "github.com/inkstone-app/inkstone/internal/pkg/jwt"
	"github.com/inkstone-app/inkstone/internal/pkg/response"
)

const apiPrefix = "/api/v2"

func (a *App) registerRoutes(docSvc *document.Service) {
	r := a.router
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "inkstone",
		"version":  "1.0.0",
		"homepage": "https://github.com/inkstone-app/inkstone",
	}

	api := r.Group(apiPrefix)

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	// Editing limits, so clients validate with the same ceilings the
	// server enforces.
	api.GET("/limits", func(c *gin.Context) {
		e := a.cfg.Editing
		c.JSON(http.StatusOK, gin.H{
			"name_max_len":       e.NameMaxLen,
			"text_max_len":       e.TextMaxLen,
			"url_max_len":        e.URLMaxLen,
			"tag_max_len":        e.TagMaxLen,
			"tags_max":           e.TagsMax,
			"arg_name_max_len":   e.ArgNameMaxLen,
			"confirm_window_ms":  e.ConfirmWindowMS,
			"feedback_window_ms": e.FeedbackWindowMS,
		})
	})

	a.registerAuthRoutes(api)
	registerJobRoutes(api, authMW, a.sched)

	document.NewHandler(docSvc).RegisterRoutes(api, authMW)
}

type tokenRequest struct {
	Secret  string `json:"secret" binding:"required"`
	Surface string `json:"surface" binding:"required"`
	TTLDays int    `json:"ttl_days"`
}

// registerAuthRoutes exposes token issuance. The caller proves instance
// ownership with the configured JWT secret and names the surface (web tab,
// agent, integration) the token acts as.
func (a *App) registerAuthRoutes(api *gin.RouterGroup) {
	api.POST("/auth/token", func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "secret and surface are required")
			return
		}
		if strings.TrimSpace(req.Secret) == "" || req.Secret != a.cfg.JWTSecret {
			response.Unauthorized(c)
			return
		}

		ttl := 30 * 24 * time.Hour
		if req.TTLDays > 0 {
			ttl = time.Duration(req.TTLDays) * 24 * time.Hour
		}
		token, err := jwtpkg.Sign(req.Surface, ttl)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":   token,
			"surface": req.Surface,
			"expires": time.Now().Add(ttl).Format(time.RFC3339),
		})
	})
}
