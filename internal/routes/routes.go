package routes

import (
	"net/http"

	"github.com/codermanagement/task-tracker/internal/handlers"
	"github.com/codermanagement/task-tracker/internal/middleware"
	"github.com/codermanagement/task-tracker/internal/realtime"
	"github.com/codermanagement/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services and settings the router is built from
type Dependencies struct {
	TaskService *services.TaskService
	UserService *services.UserService
	Hub         *realtime.Hub
	CORSOrigin  string
}

// SetupRoutes builds the gin engine with every route mounted
func SetupRoutes(deps Dependencies) *gin.Engine {
	router := gin.Default()

	origin := deps.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(origin))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Task Tracker API",
		})
	})

	taskHandler := handlers.NewTaskHandler(deps.TaskService)
	userHandler := handlers.NewUserHandler(deps.UserService)
	requireID := middleware.RequireObjectID()

	api := router.Group("/api")
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", requireID, taskHandler.GetTask)
			tasks.PUT("/:id", requireID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireID, taskHandler.DeleteTask)
		}

		users := api.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", requireID, userHandler.GetUser)
			users.GET("/:id/tasks", requireID, userHandler.ListUserTasks)
			users.PUT("/:id", requireID, userHandler.UpdateUser)
			users.DELETE("/:id", requireID, userHandler.DeleteUser)
		}
	}

	if deps.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(deps.Hub)
		router.GET("/ws/users/:id", requireID, middleware.RequireUser(deps.UserService), wsHandler.Subscribe)
	}

	return router
}
