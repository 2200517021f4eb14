package handler

import (
	"fmt"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
	"github.com/Saifullah3711/cac-multi-docs-mvp/middleware"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/Saifullah3711/cac-multi-docs-mvp/web"
	"github.com/gin-gonic/gin"
)

// runsPerMinute bounds analysis runs per session.
const runsPerMinute = 10

// Dependencies are the process-wide services the routes share.
type Dependencies struct {
	Config   *config.Config
	Sessions *service.SessionStore
	MultiDoc *service.MultiDocWorkflow
	RentRoll *service.RentRollWorkflow
}

// NewRouter builds the gin engine with every page and middleware.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	cfg := deps.Config
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.MaxMultipartMemory = 32 << 20

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())

	health := NewHealthHandler(deps.MultiDoc.Workflow, deps.Sessions)
	router.GET("/health", health.Check)

	pages := router.Group("/")
	pages.Use(middleware.NoStore())
	pages.Use(middleware.Session(deps.Sessions, sessionTTL))

	if cfg.AuthEnabled() {
		auth := NewAuthHandler(cfg)
		pages.GET("/login", auth.ShowLogin)
		pages.POST("/login", auth.Login)
		pages.POST("/logout", auth.Logout)
		pages.Use(middleware.AuthMiddleware(&cfg.Auth))
	}

	analysis := NewAnalysisHandler(deps.MultiDoc, service.NewResultNavigator(service.MultiDocSections), cfg)
	rentRoll := NewRentRollHandler(deps.RentRoll, cfg)
	limit := middleware.RateLimit(runsPerMinute, time.Minute)

	pages.GET("/", Home)
	pages.POST("/flow", SwitchFlow)

	pages.GET("/analysis", analysis.Show)
	pages.POST("/analysis/run", limit, analysis.Run)
	pages.POST("/analysis/select", analysis.Select)
	pages.POST("/analysis/new", analysis.New)

	pages.GET("/rent-roll", rentRoll.Show)
	pages.POST("/rent-roll/run", limit, rentRoll.Run)
	pages.POST("/rent-roll/new", rentRoll.New)

	return router, nil
}
