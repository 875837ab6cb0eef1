package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"parking-nav-backend/config"
	"parking-nav-backend/internal/mw"
	"parking-nav-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, srv *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(srv.RateLimitPerSec), srv.RateLimitBurst, srv.RequestIPHeader)

	ttl := time.Duration(srv.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	r.GET("/health", handler.Health)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/parking/rules/parse", handler.ParseRule)
		api.POST("/parking/query", handler.QueryParking)
		api.GET("/parking/location/:lat/:lon", handler.ParkingAtLocation)
		api.GET("/parking/streets", caching, handler.Streets)
		api.GET("/parking/predictions", handler.Predict)
		api.GET("/stats", caching, handler.Stats)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
