package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/api/handlers"
	"portfolio/api/metrics"
	"portfolio/api/middleware"
)

type routeDeps struct {
	Analytics *handlers.AnalyticsHandlers
	Projects  *handlers.ProjectHandlers
	Auth      *handlers.AuthHandlers
	Contact   *handlers.ContactHandlers
	Spotify   *handlers.SpotifyHandlers
	Blog      *handlers.BlogHandlers
	Admin     *middleware.AdminAuth
	Metrics   *metrics.Metrics
	Origins   []string
}

func newRouter(d routeDeps, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger, d.Metrics))
	r.Use(middleware.CORSMiddleware(d.Origins))

	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	// Spotify redirects the browser here after consent.
	r.GET("/callback", d.Spotify.Callback)

	api := r.Group("/api")
	{
		analytics := api.Group("/analytics")
		{
			analytics.POST("/track/pageview", d.Analytics.TrackPageView)
			analytics.POST("/track/click", d.Analytics.TrackClick)
			analytics.GET("/dashboard", d.Analytics.DashboardStats)
			analytics.GET("/activity", d.Analytics.RecentActivity)
			analytics.GET("/health", d.Analytics.Health)
		}

		api.GET("/projects", d.Projects.List)
		api.GET("/projects/:id", d.Projects.Get)
		protected := api.Group("/projects")
		protected.Use(d.Admin.Required())
		{
			protected.POST("", d.Projects.Create)
			protected.PUT("/:id", d.Projects.Update)
			protected.DELETE("/:id", d.Projects.Delete)
		}

		api.POST("/auth/login", d.Auth.Login)
		api.POST("/auth/logout", d.Auth.Logout)
		api.GET("/auth/spotify", d.Spotify.AuthURL)
		api.GET("/spotify", d.Spotify.NowPlaying)

		api.POST("/contact", d.Contact.Submit)

		blog := api.Group("/blog")
		{
			blog.GET("", d.Blog.List)
			blog.GET("/tags", d.Blog.Tags)
			blog.GET("/tags/:tag", d.Blog.ByTag)
			blog.GET("/:slug", d.Blog.Get)
			blog.GET("/:slug/related", d.Blog.Related)
		}
	}
	return r
}
