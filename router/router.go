package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tauasu/booking-app/controllers"
	"github.com/tauasu/booking-app/middlewares"
	"github.com/tauasu/booking-app/store"
)

func SetupRouter(s *store.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(s)
	bookingCtrl := controllers.NewBookingController(s)
	zoneCtrl := controllers.NewZoneController(s)
	customerCtrl := controllers.NewCustomerController(s)
	notificationCtrl := controllers.NewNotificationController(s)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware(), middlewares.StaffOrAdmin())

	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/profile", userCtrl.GetProfile)

	// ZONES
	auth.GET("/zones", zoneCtrl.GetZones)
	auth.GET("/zones/by-type", zoneCtrl.GetZonesByType)
	auth.GET("/zones/:zone_id", zoneCtrl.GetZoneByID)
	auth.GET("/zones/:zone_id/availability", zoneCtrl.CheckAvailability)

	// BOOKINGS (reads and view acknowledgment for everyone logged-in)
	auth.GET("/bookings", bookingCtrl.GetBookings)
	auth.GET("/bookings/range", bookingCtrl.GetBookingsInRange)
	auth.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	auth.POST("/bookings/:booking_id/view", bookingCtrl.MarkViewed)

	// CUSTOMERS
	auth.GET("/customers", customerCtrl.GetAllCustomers)
	auth.GET("/customers/export", customerCtrl.ExportCSV)
	auth.GET("/customers/export-pdf", customerCtrl.ExportPDF)
	auth.GET("/customers/:phone_number", customerCtrl.GetCustomerByPhone)

	// NOTIFICATIONS
	auth.GET("/notifications", notificationCtrl.GetNotifications)
	auth.POST("/notifications/:notif_id/read", notificationCtrl.MarkRead)
	auth.POST("/notifications/read-all", notificationCtrl.MarkAllRead)

	// Admin-only mutations, per the UI contract
	admin := auth.Group("/")
	admin.Use(middlewares.AdminOnly())
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.POST("/bookings", bookingCtrl.CreateBooking)
		admin.PATCH("/bookings/:booking_id", bookingCtrl.UpdateBooking)
		admin.DELETE("/bookings/:booking_id", bookingCtrl.DeleteBooking)
		admin.POST("/bookings/:booking_id/close", bookingCtrl.CloseBooking)
		admin.PATCH("/customers/:phone_number/notes", customerCtrl.UpdateNotes)
	}

	// WebSocket endpoint with query-token auth
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.RealtimeHandler)
	}

	return r
}
