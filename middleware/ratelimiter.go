package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moa-app/moa-backend/utils"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter returns a Gin middleware limiting requests per client IP.
// Uses the shared redis client when available so limits hold across
// replicas; otherwise each process keeps its own in-memory counters.
func RateLimiter() gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  100,
	}

	var store limiter.Store
	if client := utils.RedisClient(); client != nil {
		s, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "moa_limiter",
		})
		if err != nil {
			log.Printf("redis limiter store unavailable, using memory store: %v", err)
			store = memory.NewStore()
		} else {
			store = s
		}
	} else {
		store = memory.NewStore()
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
