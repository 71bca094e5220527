package Controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tauasu/booking-app/controllers"
	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/store"
)

func setupCustomerRouter(s *store.Store, username, role string) *gin.Engine {
	router := gin.New()
	router.Use(identityMiddleware(username, role))

	customerCtrl := controllers.NewCustomerController(s)
	bookingCtrl := controllers.NewBookingController(s)
	router.POST("/bookings", bookingCtrl.CreateBooking)
	router.GET("/customers", customerCtrl.GetAllCustomers)
	router.GET("/customers/export", customerCtrl.ExportCSV)
	router.GET("/customers/export-pdf", customerCtrl.ExportPDF)
	router.GET("/customers/:phone_number", customerCtrl.GetCustomerByPhone)
	router.PATCH("/customers/:phone_number/notes", customerCtrl.UpdateNotes)
	return router
}

func TestCustomerDirectoryOverHTTP(t *testing.T) {
	s := newTestStore(t.Name())
	router := setupCustomerRouter(s, "admin", models.RoleAdmin)

	doJSON(router, "POST", "/bookings", bookingPayload("yurt1", "Асель", "+77009990001", "2025-06-01", 12))
	doJSON(router, "POST", "/bookings", bookingPayload("yurt2", "Асель Б.", "+77009990001", "2025-06-10", 12))
	doJSON(router, "POST", "/bookings", bookingPayload("terrace1", "Марат", "+77009990002", "2025-06-05", 12))

	w := doJSON(router, "GET", "/customers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	customers := decodeBody(w)["data"].([]interface{})
	if assert.Len(t, customers, 2) {
		first := customers[0].(map[string]interface{})
		assert.Equal(t, "+77009990001", first["phoneNumber"])
		assert.Equal(t, "Асель Б.", first["name"])
		assert.Equal(t, 2.0, first["bookingsCount"])
	}

	w = doJSON(router, "GET", "/customers/+77009990002", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, "Марат", data["name"])

	w = doJSON(router, "GET", "/customers/+77000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCustomerNotesOverHTTP(t *testing.T) {
	s := newTestStore(t.Name())
	adminRouter := setupCustomerRouter(s, "admin", models.RoleAdmin)
	staffRouter := setupCustomerRouter(s, "person", models.RoleStaff)

	doJSON(adminRouter, "POST", "/bookings", bookingPayload("yurt1", "Сергей", "+77009990003", "2025-06-01", 12))

	w := doJSON(adminRouter, "PATCH", "/customers/+77009990003/notes", map[string]string{"notes": "Аллергия на орехи"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(adminRouter, "GET", "/customers/+77009990003", nil)
	data := decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, "Аллергия на орехи", data["notes"])

	// The store guards notes edits even if routing were misconfigured.
	w = doJSON(staffRouter, "PATCH", "/customers/+77009990003/notes", map[string]string{"notes": "VIP"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCustomerExports(t *testing.T) {
	s := newTestStore(t.Name())
	router := setupCustomerRouter(s, "admin", models.RoleAdmin)

	doJSON(router, "POST", "/bookings", bookingPayload("yurt1", "Жанна", "+77009990004", "2025-06-01", 12))

	w := doJSON(router, "GET", "/customers/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "customers")
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "Имя клиента"), "csv header missing")
	assert.Contains(t, body, "Жанна")
	assert.Contains(t, body, "+77009990004")

	w = doJSON(router, "GET", "/customers/export-pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"), "not a pdf payload")
}
