package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hotelops/hotel-admin-backend/internal/middleware"
)

// Router groups every handler mounted under /api/v1
type Router struct {
	Auth         *AdminAuthHandler
	Clients      *ClientHandler
	Rooms        *RoomHandler
	Reservations *ReservationHandler
	Dashboard    *DashboardHandler
	System       *SystemHandler // optional
}

// Register mounts the API on v1. requireAuth guards every admin route;
// login, refresh and the public request form stay open.
func (r *Router) Register(v1 *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	// Authentication routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", r.Auth.Login)
		auth.POST("/refresh", r.Auth.RefreshToken)

		authProtected := auth.Group("")
		authProtected.Use(requireAuth)
		{
			authProtected.POST("/logout", r.Auth.Logout)
			authProtected.GET("/profile", r.Auth.GetProfile)
		}
	}

	// Public reservation request form
	v1.POST("/requests", r.Reservations.SubmitRequest)

	admin := v1.Group("")
	admin.Use(requireAuth)
	{
		clients := admin.Group("/clients")
		{
			clients.GET("", r.Clients.ListClients)
			clients.POST("", r.Clients.CreateClient)
			clients.GET("/national-id/:nationalId", r.Clients.GetByNationalID)
			clients.PUT("/:id", r.Clients.UpdateClient)
			clients.DELETE("/:id", r.Clients.DeleteClient)
		}

		rooms := admin.Group("/rooms")
		{
			rooms.GET("", r.Rooms.ListRooms)
			rooms.POST("", r.Rooms.CreateRoom)
			rooms.GET("/available", r.Rooms.AvailableRooms)
			rooms.PUT("/:id", r.Rooms.UpdateRoom)
			rooms.DELETE("/:id", r.Rooms.DeleteRoom)
			rooms.POST("/:id/cycle-status", r.Rooms.CycleStatus)
		}

		reservations := admin.Group("/reservations")
		{
			reservations.GET("", r.Reservations.ListReservations)
			reservations.POST("", r.Reservations.CreateReservation)
			reservations.GET("/occupancy", r.Reservations.VerifyOccupancy)
			reservations.GET("/form-lookups", r.Reservations.FormLookups)
			reservations.GET("/:id", r.Reservations.GetReservation)
			reservations.PUT("/:id", r.Reservations.EditReservation)
			reservations.DELETE("/:id", r.Reservations.CancelReservation)
			reservations.POST("/:id/confirm", r.Reservations.ConfirmReservation)
			reservations.POST("/:id/release", r.Reservations.ReleaseRoom)
			reservations.POST("/:id/deny", r.Reservations.DenyReservation)
		}

		requests := admin.Group("/requests")
		{
			requests.GET("", r.Reservations.ListRequests)
			requests.POST("/:id/confirm", r.Reservations.ConfirmRequest)
			requests.POST("/:id/reject", r.Reservations.RejectRequest)
		}

		dashboard := admin.Group("/dashboard")
		{
			dashboard.GET("/stats", r.Dashboard.GetStats)
			dashboard.GET("/stream", r.Dashboard.Stream)
		}

		if r.System != nil {
			system := admin.Group("/system")
			system.Use(middleware.RequireRole("admin"))
			{
				system.GET("/jobs", r.System.JobStatus)
				system.POST("/jobs/:job/run", r.System.RunJob)
			}
		}
	}
}
