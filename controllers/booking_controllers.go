package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/store"
	"github.com/tauasu/booking-app/utils"
)

type BookingController struct {
	Store *store.Store
}

func NewBookingController(s *store.Store) *BookingController {
	return &BookingController{Store: s}
}

// respondStoreError maps the engine's error taxonomy onto HTTP statuses.
func respondStoreError(c *gin.Context, err error) {
	var (
		validationErr  *store.ValidationError
		conflictErr    *store.ConflictError
		notAuthErr     *store.NotAuthorizedError
		persistenceErr *store.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &conflictErr):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.As(err, &notAuthErr):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.As(err, &persistenceErr):
		utils.RespondError(c, http.StatusInternalServerError, err)
	case errors.Is(err, store.ErrBookingNotFound),
		errors.Is(err, store.ErrZoneNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// actor resolves the authenticated user set by the auth middleware.
func (bc *BookingController) actor(c *gin.Context) *models.User {
	username := c.GetString("username")
	if username == "" {
		return nil
	}
	user, ok := bc.Store.UserByUsername(username)
	if !ok {
		return nil
	}
	return user
}

type bookingRequest struct {
	ZoneID      string  `json:"zoneId" binding:"required"`
	ZoneName    string  `json:"zoneName"`
	ClientName  string  `json:"clientName" binding:"required"`
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
	PersonCount int     `json:"personCount"`
	DateTime    string  `json:"dateTime" binding:"required"`
	EndTime     string  `json:"endTime" binding:"required"`
	RentalCost  float64 `json:"rentalCost"`
	Prepayment  float64 `json:"prepayment"`
	Menu        string  `json:"menu"`
}

func parseLocalTime(value string) (time.Time, error) {
	// The form submits "2006-01-02T15:04" local times; full RFC3339 is
	// accepted too.
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// CreateBooking -> POST /bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	start, err := parseLocalTime(req.DateTime)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := parseLocalTime(req.EndTime)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Store.CreateBooking(store.CreateBookingInput{
		ZoneID:      req.ZoneID,
		ZoneName:    req.ZoneName,
		ClientName:  req.ClientName,
		PhoneNumber: req.PhoneNumber,
		PersonCount: req.PersonCount,
		DateTime:    start,
		EndTime:     end,
		RentalCost:  req.RentalCost,
		Prepayment:  req.Prepayment,
		Menu:        req.Menu,
	}, bc.actor(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

type bookingPatchRequest struct {
	ZoneID      *string  `json:"zoneId"`
	ZoneName    *string  `json:"zoneName"`
	ClientName  *string  `json:"clientName"`
	PhoneNumber *string  `json:"phoneNumber"`
	PersonCount *int     `json:"personCount"`
	DateTime    *string  `json:"dateTime"`
	EndTime     *string  `json:"endTime"`
	RentalCost  *float64 `json:"rentalCost"`
	Prepayment  *float64 `json:"prepayment"`
	Menu        *string  `json:"menu"`
}

// UpdateBooking -> PATCH /bookings/:booking_id (sparse patch)
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req bookingPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	patch := store.BookingPatch{
		ZoneID:      req.ZoneID,
		ZoneName:    req.ZoneName,
		ClientName:  req.ClientName,
		PhoneNumber: req.PhoneNumber,
		PersonCount: req.PersonCount,
		RentalCost:  req.RentalCost,
		Prepayment:  req.Prepayment,
		Menu:        req.Menu,
	}
	if req.DateTime != nil {
		t, err := parseLocalTime(*req.DateTime)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		patch.DateTime = &t
	}
	if req.EndTime != nil {
		t, err := parseLocalTime(*req.EndTime)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		patch.EndTime = &t
	}

	booking, err := bc.Store.UpdateBooking(id, patch, bc.actor(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking updated", booking)
}

// GetBookings -> GET /bookings?date=&zone_type= ("all" disables a filter)
func (bc *BookingController) GetBookings(c *gin.Context) {
	date := c.Query("date")
	zoneType := c.Query("zone_type")

	if date == "" && zoneType == "" {
		utils.RespondJSON(c, http.StatusOK, "All bookings", bc.Store.SortedBookings())
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Filtered bookings", bc.Store.FilteredBookings(date, zoneType))
}

// GetBookingsInRange -> GET /bookings/range?start=&end= (YYYY-MM-DD)
func (bc *BookingController) GetBookingsInRange(c *gin.Context) {
	start, err := time.ParseInLocation("2006-01-02", c.Query("start"), time.Local)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := time.ParseInLocation("2006-01-02", c.Query("end"), time.Local)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// include the whole end day
	end = end.Add(24*time.Hour - time.Second)

	utils.RespondJSON(c, http.StatusOK, "Bookings in range", bc.Store.BookingsInDateRange(start, end))
}

// GetBookingByID -> GET /bookings/:booking_id
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	booking, ok := bc.Store.BookingByID(id)
	if !ok {
		utils.RespondError(c, http.StatusNotFound, store.ErrBookingNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// CloseBooking -> POST /bookings/:booking_id/close (admin)
func (bc *BookingController) CloseBooking(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Store.CloseBooking(id, bc.actor(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking closed", booking)
}

// MarkViewed -> POST /bookings/:booking_id/view {"role": "waiter"|"cook"}
func (bc *BookingController) MarkViewed(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := bc.Store.MarkViewed(id, body.Role)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking marked as viewed", booking)
}

// DeleteBooking -> DELETE /bookings/:booking_id (admin)
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := bc.Store.DeleteBooking(id, bc.actor(c)); err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking deleted", gin.H{"id": id})
}

func bookingID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("booking_id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid booking id")
	}
	return uint(id), nil
}
