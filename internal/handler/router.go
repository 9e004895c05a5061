package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/boltpath-api/internal/middleware"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth        *AuthHandler
	Students    *StudentHandler
	Assignments *AssignmentHandler
	Progress    *ProgressHandler
	Dashboard   *DashboardHandler
	Exports     *ExportHandler
}

// RegisterRoutes mounts the roster API on the group. Everything except login
// requires a session token.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator) {
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	secured.GET("/auth/me", h.Auth.Me)

	students := secured.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PATCH("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)

	assignments := secured.Group("/assignments")
	assignments.GET("", h.Assignments.List)
	assignments.POST("", h.Assignments.Create)
	assignments.GET("/:id", h.Assignments.Get)
	assignments.PATCH("/:id", h.Assignments.Update)
	assignments.PATCH("/:id/status", h.Assignments.UpdateStatus)
	assignments.DELETE("/:id", h.Assignments.Delete)

	secured.GET("/progress", h.Progress.List)
	secured.PUT("/progress", h.Progress.Upsert)

	secured.GET("/dashboard", h.Dashboard.Summary)

	secured.GET("/exports/roster", h.Exports.Roster)
	secured.GET("/exports/assignments/:id/progress", h.Exports.AssignmentProgress)
}
