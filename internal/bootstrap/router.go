package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	httpapi "github.com/GoSim-25-26J-441/go-impact-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/api/http/routes"
	projectshttp "github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/http"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Projects       projectshttp.ProjectService
	StorePing      httpapi.StoreChecker
	ProviderState  func() string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.StorePing, dep.ProviderState)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{Projects: dep.Projects})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || lo.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
