package routes

import (
	"github.com/gin-gonic/gin"

	projectshttp "github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/http"
)

type V1Deps struct {
	Projects projectshttp.ProjectService
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	projectsGroup := api.Group("/projects")
	projectshttp.New(dep.Projects).Register(projectsGroup)
}
