package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tauasu/booking-app/controllers"
	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/store"
)

func setupBookingRouter(s *store.Store, username, role string) *gin.Engine {
	router := gin.New()
	router.Use(identityMiddleware(username, role))

	bookingCtrl := controllers.NewBookingController(s)
	router.POST("/bookings", bookingCtrl.CreateBooking)
	router.GET("/bookings", bookingCtrl.GetBookings)
	router.GET("/bookings/range", bookingCtrl.GetBookingsInRange)
	router.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	router.PATCH("/bookings/:booking_id", bookingCtrl.UpdateBooking)
	router.DELETE("/bookings/:booking_id", bookingCtrl.DeleteBooking)
	router.POST("/bookings/:booking_id/close", bookingCtrl.CloseBooking)
	router.POST("/bookings/:booking_id/view", bookingCtrl.MarkViewed)
	return router
}

func TestCreateAndGetBooking(t *testing.T) {
	s := newTestStore(t.Name())
	router := setupBookingRouter(s, "admin", models.RoleAdmin)

	w := doJSON(router, "POST", "/bookings", bookingPayload("yurt1", "Айгерим", "+77001230001", "2025-06-01", 12))
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeBody(w)
	assert.Equal(t, true, resp["status"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "yurt1", data["zoneId"])
	assert.Equal(t, "Юрты", data["zoneType"])
	assert.Equal(t, "Айгерим", data["clientName"])
	assert.Equal(t, "admin", data["createdBy"])
	assert.Equal(t, false, data["closed"])
	id := int(data["id"].(float64))
	assert.NotZero(t, id)

	w = doJSON(router, "GET", fmt.Sprintf("/bookings/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody(w)
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, "+77001230001", data["phoneNumber"])

	w = doJSON(router, "GET", "/bookings/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBookingConflict(t *testing.T) {
	s := newTestStore(t.Name())
	router := setupBookingRouter(s, "admin", models.RoleAdmin)

	w := doJSON(router, "POST", "/bookings", bookingPayload("yurt1", "Первый", "+77001230002", "2025-06-01", 12))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same zone, same day, later hour: busy.
	w = doJSON(router, "POST", "/bookings", bookingPayload("yurt1", "Второй", "+77001230003", "2025-06-01", 18))
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeBody(w)
	assert.Equal(t, false, resp["status"])

	// Next day goes through.
	w = doJSON(router, "POST", "/bookings", bookingPayload("yurt1", "Второй", "+77001230003", "2025-06-02", 18))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBookingValidation(t *testing.T) {
	s := newTestStore(t.Name())
	router := setupBookingRouter(s, "admin", models.RoleAdmin)

	// Binding failure: required fields missing.
	w := doJSON(router, "POST", "/bookings", map[string]interface{}{"zoneId": "yurt1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown zone id.
	w = doJSON(router, "POST", "/bookings", bookingPayload("yurt99", "Клиент", "+77001230004", "2025-06-01", 12))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// End before start.
	payload := bookingPayload("yurt1", "Клиент", "+77001230004", "2025-06-01", 12)
	payload["endTime"] = "2025-06-01T10:00"
	w = doJSON(router, "POST", "/bookings", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unparseable timestamp.
	payload = bookingPayload("yurt1", "Клиент", "+77001230004", "2025-06-01", 12)
	payload["dateTime"] = "01.06.2025 12:00"
	w = doJSON(router, "POST", "/bookings", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingFiltersAndRange(t *testing.T) {
	s := newTestStore(t.Name())
	router := setupBookingRouter(s, "admin", models.RoleAdmin)

	doJSON(router, "POST", "/bookings", bookingPayload("yurt1", "А", "+77001230005", "2025-06-01", 12))
	doJSON(router, "POST", "/bookings", bookingPayload("terrace1", "Б", "+77001230006", "2025-06-01", 12))
	doJSON(router, "POST", "/bookings", bookingPayload("terrace2", "В", "+77001230007", "2025-06-03", 12))

	w := doJSON(router, "GET", "/bookings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(w)
	assert.Len(t, resp["data"].([]interface{}), 3)

	w = doJSON(router, "GET", "/bookings?date=2025-06-01&zone_type=all", nil)
	resp = decodeBody(w)
	assert.Len(t, resp["data"].([]interface{}), 2)

	w = doJSON(router, "GET", "/bookings?date=all&zone_type=Террасы", nil)
	resp = decodeBody(w)
	assert.Len(t, resp["data"].([]interface{}), 2)

	w = doJSON(router, "GET", "/bookings/range?start=2025-06-01&end=2025-06-02", nil)
	resp = decodeBody(w)
	assert.Len(t, resp["data"].([]interface{}), 2)

	w = doJSON(router, "GET", "/bookings/range?start=2025-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	s := newTestStore(t.Name())
	adminRouter := setupBookingRouter(s, "admin", models.RoleAdmin)
	staffRouter := setupBookingRouter(s, "person", models.RoleStaff)

	w := doJSON(adminRouter, "POST", "/bookings", bookingPayload("gazebo1", "Динара", "+77001230008", "2025-06-05", 12))
	assert.Equal(t, http.StatusCreated, w.Code)
	id := int(decodeBody(w)["data"].(map[string]interface{})["id"].(float64))

	// Staff acknowledges the booking on the waiter screen.
	w = doJSON(staffRouter, "POST", fmt.Sprintf("/bookings/%d/view", id), map[string]string{"role": "waiter"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["waiterViewed"])
	firstStamp := data["waiterViewedAt"]
	assert.NotNil(t, firstStamp)

	// Re-acknowledging keeps the original stamp.
	w = doJSON(staffRouter, "POST", fmt.Sprintf("/bookings/%d/view", id), map[string]string{"role": "waiter"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, firstStamp, decodeBody(w)["data"].(map[string]interface{})["waiterViewedAt"])

	w = doJSON(staffRouter, "POST", fmt.Sprintf("/bookings/%d/view", id), map[string]string{"role": "manager"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Close, then any edit is rejected.
	w = doJSON(adminRouter, "POST", fmt.Sprintf("/bookings/%d/close", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["closed"])
	assert.Equal(t, "admin", data["closedBy"])

	w = doJSON(adminRouter, "PATCH", fmt.Sprintf("/bookings/%d", id), map[string]string{"clientName": "Другая"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A closed booking only falls to an admin delete.
	w = doJSON(staffRouter, "DELETE", fmt.Sprintf("/bookings/%d", id), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(adminRouter, "DELETE", fmt.Sprintf("/bookings/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(adminRouter, "GET", fmt.Sprintf("/bookings/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBookingOverHTTP(t *testing.T) {
	s := newTestStore(t.Name())
	router := setupBookingRouter(s, "admin", models.RoleAdmin)

	w := doJSON(router, "POST", "/bookings", bookingPayload("tapchane1", "Ермек", "+77001230009", "2025-06-07", 12))
	assert.Equal(t, http.StatusCreated, w.Code)
	id := int(decodeBody(w)["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(router, "PATCH", fmt.Sprintf("/bookings/%d", id), map[string]interface{}{
		"clientName": "Ермек А.",
		"dateTime":   "2025-06-07T18:00",
		"rentalCost": 30000,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(w)["data"].(map[string]interface{})
	assert.Equal(t, "Ермек А.", data["clientName"])
	assert.Equal(t, 30000.0, data["rentalCost"])
	// Untouched fields survive a sparse patch.
	assert.Equal(t, "+77001230009", data["phoneNumber"])

	w = doJSON(router, "PATCH", "/bookings/abc", map[string]string{"clientName": "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
