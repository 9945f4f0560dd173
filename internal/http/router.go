// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voyager/internal/http/handlers"
	"voyager/internal/http/middleware"
)

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(s.log), middleware.Recovery(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authHandler := handlers.NewAuthHandler(s.deps.Identity)
	public := r.Group("/api/auth")
	public.POST("/signup", authHandler.SignUp)
	public.POST("/signin", authHandler.SignIn)
	public.POST("/signin/idp", authHandler.SignInWithIdP)
	public.POST("/password/reset", authHandler.ResetPassword)

	api := r.Group("/api", middleware.Auth(s.deps.Verifier))
	api.POST("/auth/signout", authHandler.SignOut)
	api.POST("/auth/password", authHandler.UpdatePassword)
	api.GET("/auth/me", authHandler.Me)

	locationHandler := handlers.NewLocationHandler(s.deps.Location)
	api.GET("/location/reverse", locationHandler.Reverse)

	tripHandler := handlers.NewTripHandler(s.deps.Planner, s.deps.Trips, s.deps.Edits)
	api.POST("/trips/generate", tripHandler.Generate)
	api.GET("/trips", tripHandler.List)
	api.GET("/trips/:id", tripHandler.Get)
	api.DELETE("/trips/:id", tripHandler.Delete)
	api.GET("/trips/:id/links", tripHandler.Links)

	editHandler := handlers.NewEditHandler(s.deps.Trips, s.deps.Edits)
	api.POST("/trips/:id/edit", editHandler.Open)
	api.GET("/trips/:id/edit", editHandler.State)
	api.POST("/trips/:id/edit/submit", editHandler.Submit)
	api.DELETE("/trips/:id/edit", editHandler.Cancel)
	api.POST("/trips/:id/days/:day/activities", editHandler.AddActivity)

	exportHandler := handlers.NewExportHandler(s.deps.Trips)
	api.GET("/trips/:id/calendar.ics", exportHandler.Calendar)
	api.GET("/trips/:id/export.xlsx", exportHandler.Spreadsheet)

	chatHandler := handlers.NewChatHandler(s.deps.Planner, s.deps.Conversations, s.deps.Trips)
	api.POST("/chat", chatHandler.Start)
	api.GET("/chat/:id", chatHandler.History)
	api.POST("/chat/:id/messages", chatHandler.Send)

	return r
}
