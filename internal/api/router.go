package api

import (
	"net/http"
	"time"

	"DailyHaiku/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// RouterConfig 路由层参数
type RouterConfig struct {
	AllowedOrigins []string
	Pprof          bool
}

// NewRouter 注册全部路由
func NewRouter(cfg RouterConfig, haiku *HaikuHandler, email *EmailHandler, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 仅允许前端域名跨域，携带凭证
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With", CronSecretHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Pprof {
		pprof.Register(r)
	}

	r.GET("/daily_haiku", haiku.DailyHaiku)
	r.GET("/haiku/today", haiku.Today)
	r.GET("/haiku/:date", haiku.Preview)
	r.GET("/api/haiku/history", haiku.History)
	r.GET("/api/haiku/:date", haiku.ByDate)
	r.POST("/send_daily_haiku_email", email.SendDaily)

	r.GET("/healthz", haiku.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r
}
