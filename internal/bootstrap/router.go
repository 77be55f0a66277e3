package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/GoSim-25-26J-441/projectdash/internal/api/http"
	apimw "github.com/GoSim-25-26J-441/projectdash/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/projectdash/internal/auth"
	authmw "github.com/GoSim-25-26J-441/projectdash/internal/auth/middleware"
	projecthttp "github.com/GoSim-25-26J-441/projectdash/internal/projects/http"
	projectservice "github.com/GoSim-25-26J-441/projectdash/internal/projects/service"
	settingshttp "github.com/GoSim-25-26J-441/projectdash/internal/settings/http"
	settingsservice "github.com/GoSim-25-26J-441/projectdash/internal/settings/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	Logger   *zap.Logger
	Registry *prometheus.Registry
	Sessions auth.SessionResolver
	Projects *projectservice.ProjectService
	Settings *settingsservice.SettingsService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := dep.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestID(log))
	r.Use(apimw.NewMetrics(reg).Handler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", apimw.HeaderRequestID},
		ExposeHeaders:    []string{apimw.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Projects)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(authmw.RequireSession(dep.Sessions, log))
	api.Use(apimw.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst).Handler())

	projecthttp.New(dep.Projects).Register(api.Group("/projects"))
	settingshttp.New(dep.Settings).Register(api.Group("/settings"))

	return r
}
