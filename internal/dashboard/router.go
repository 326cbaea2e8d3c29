// Package dashboard serves the operator web UI: a session-guarded
// seller board with a live feed of fired alerts.
package dashboard

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

type Config struct {
	SessionSecret string
	Auth          *AuthHandler
	Sellers       *SellerHandler
	AlertFeed     *AlertFeedHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(pageTemplates)
	router.Use(sessions.Sessions("kursbot", cookie.NewStore([]byte(cfg.SessionSecret))))

	router.GET("/login", cfg.Auth.LoginPage)
	router.POST("/login", cfg.Auth.Login)
	router.POST("/logout", cfg.Auth.Logout)

	authed := router.Group("/", requireLogin)
	{
		authed.GET("/", cfg.Sellers.Index)
		authed.GET("/api/sellers", cfg.Sellers.ListJSON)
		authed.POST("/sellers", cfg.Sellers.Create)
		authed.POST("/sellers/:id", cfg.Sellers.Update)
		authed.POST("/sellers/:id/delete", cfg.Sellers.Delete)
		authed.GET("/ws/alerts", cfg.AlertFeed.Subscribe)
	}

	return router
}
