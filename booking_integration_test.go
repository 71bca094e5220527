package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tauasu/booking-app/database"
	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/router"
	"github.com/tauasu/booking-app/store"
	"github.com/tauasu/booking-app/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow over the real router:
// 0. seed + login as admin -> token
// 1. create a booking
// 2. second booking for the same zone/day -> 409
// 3. staff logs in, sees the notification, acknowledges the view
// 4. admin closes the booking; edits are rejected from then on
// 5. customer directory reflects the booking, export works
func TestEndToEndIntegration(t *testing.T) {
	s := setupTestStore()
	defer s.StopSync()
	r := router.SetupRouter(s)

	adminToken := loginTest(t, r, "admin", "adminadmin")
	staffToken := loginTest(t, r, "person", "personperson")

	bookingID := createBookingTest(t, r, adminToken)
	conflictBookingTest(t, r, adminToken)
	notificationAndViewTest(t, r, staffToken, bookingID)
	closeBookingTest(t, r, adminToken, staffToken, bookingID)
	customerDirectoryTest(t, r, adminToken)
}

// setupTestStore -> in-memory sqlite with the full schema, triggers and
// seed fixtures, wrapped by a started store.
func setupTestStore() *store.Store {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Zone{},
		&models.Booking{},
		&models.CustomerNote{},
		&models.Notification{},
		&models.DBChange{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	if err := database.ExecuteTriggers(db); err != nil {
		log.Fatalf("failed to install triggers: %v", err)
	}
	if err := database.SeedZones(db); err != nil {
		log.Fatalf("failed to seed zones: %v", err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}

	s := store.New(db)
	if err := s.Start(); err != nil {
		log.Fatalf("failed to start store: %v", err)
	}
	return s
}

func request(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp
}

func loginTest(t *testing.T, r *gin.Engine, username, password string) string {
	w := request(r, "POST", "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := parse(t, w)["data"].(map[string]interface{})
	token, ok := data["token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	return token
}

func createBookingTest(t *testing.T, r *gin.Engine, token string) int {
	payload := map[string]interface{}{
		"zoneId":      "yurt1",
		"clientName":  "Айгерим",
		"phoneNumber": "+77001234567",
		"personCount": 6,
		"dateTime":    "2025-06-01T12:00",
		"endTime":     "2025-06-01T16:00",
		"rentalCost":  40000,
		"prepayment":  10000,
		"menu":        "Бешбармак, баурсаки",
	}

	// Without a token the route is closed.
	w := request(r, "POST", "/bookings", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, "POST", "/bookings", token, payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	data := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "yurt1", data["zoneId"])
	assert.Equal(t, "admin", data["createdBy"])
	return int(data["id"].(float64))
}

func conflictBookingTest(t *testing.T, r *gin.Engine, token string) {
	payload := map[string]interface{}{
		"zoneId":      "yurt1",
		"clientName":  "Марат",
		"phoneNumber": "+77007654321",
		"dateTime":    "2025-06-01T19:00",
		"endTime":     "2025-06-01T22:00",
	}
	w := request(r, "POST", "/bookings", token, payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The advisory check agrees.
	w = request(r, "GET", "/zones/yurt1/availability?date=2025-06-01", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["booked"])
}

func notificationAndViewTest(t *testing.T, r *gin.Engine, staffToken string, bookingID int) {
	// Staff got notified about the admin's booking.
	w := request(r, "GET", "/notifications", staffToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 1.0, data["unread"])
	notifs := data["notifications"].([]interface{})
	assert.NotEmpty(t, notifs)
	assert.Equal(t, "booking_created", notifs[0].(map[string]interface{})["type"])

	// Staff may acknowledge views but not create bookings.
	w = request(r, "POST", "/bookings", staffToken, map[string]interface{}{
		"zoneId":      "yurt2",
		"clientName":  "X",
		"phoneNumber": "+77000000000",
		"dateTime":    "2025-06-01T12:00",
		"endTime":     "2025-06-01T14:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(r, "POST", fmt.Sprintf("/bookings/%d/view", bookingID), staffToken, map[string]string{"role": "waiter"})
	assert.Equal(t, http.StatusOK, w.Code)
	booking := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, booking["waiterViewed"])
}

func closeBookingTest(t *testing.T, r *gin.Engine, adminToken, staffToken string, bookingID int) {
	// Closing is admin-only at the router level.
	w := request(r, "POST", fmt.Sprintf("/bookings/%d/close", bookingID), staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(r, "POST", fmt.Sprintf("/bookings/%d/close", bookingID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["closed"])

	// Read-only from here.
	w = request(r, "PATCH", fmt.Sprintf("/bookings/%d", bookingID), adminToken, map[string]string{"clientName": "Другая"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The close fanned out a second notification to staff.
	w = request(r, "GET", "/notifications", staffToken, nil)
	data = parse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 2.0, data["unread"])
}

func customerDirectoryTest(t *testing.T, r *gin.Engine, token string) {
	w := request(r, "GET", "/customers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	customers := parse(t, w)["data"].([]interface{})
	if assert.Len(t, customers, 1) {
		c := customers[0].(map[string]interface{})
		assert.Equal(t, "Айгерим", c["name"])
		assert.Equal(t, "+77001234567", c["phoneNumber"])
		assert.Equal(t, 1.0, c["bookingsCount"])
	}

	w = request(r, "PATCH", "/customers/+77001234567/notes", token, map[string]string{"notes": "Юбилей в июне"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(r, "GET", "/customers/export", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Айгерим")
	assert.Contains(t, w.Body.String(), "Юбилей в июне")
}
