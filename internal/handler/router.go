package handler

import (
	"github.com/gin-gonic/gin"

	"Gourmet-App/internal/handler/middleware"
)

// NewRouter APIのルーティングを設定する
func NewRouter(health *HealthHandler, restaurants *RestaurantHandler, reviews *ReviewHandler, signingKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", health.Health)

	authed := api.Group("")
	authed.Use(middleware.Auth(signingKey))
	{
		authed.POST("/session/init", restaurants.InitSession)
		authed.GET("/restaurants", restaurants.ListRestaurants)
		authed.POST("/restaurants/select", restaurants.SelectRestaurant)
		authed.POST("/restaurants/:docId/like", restaurants.ToggleLike)

		authed.POST("/reviews", reviews.AddReview)
		authed.DELETE("/reviews/:id", reviews.DeleteReview)
		authed.GET("/users/me/reviews", reviews.ListMyReviews)
	}

	return r
}
