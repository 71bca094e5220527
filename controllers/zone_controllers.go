package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tauasu/booking-app/store"
	"github.com/tauasu/booking-app/utils"
)

type ZoneController struct {
	Store *store.Store
}

func NewZoneController(s *store.Store) *ZoneController {
	return &ZoneController{Store: s}
}

// GetZones -> the full catalog including runtime "other" zones.
func (zc *ZoneController) GetZones(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Zone catalog", zc.Store.Zones())
}

// GetZonesByType -> GET /zones/by-type?type= ("all" returns everything)
func (zc *ZoneController) GetZonesByType(c *gin.Context) {
	zoneType := c.Query("type")
	utils.RespondJSON(c, http.StatusOK, "Zones by type", zc.Store.ZonesByType(zoneType))
}

// GetZoneByID -> GET /zones/:zone_id
func (zc *ZoneController) GetZoneByID(c *gin.Context) {
	zone, ok := zc.Store.ZoneByID(c.Param("zone_id"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, store.ErrZoneNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Zone detail", zone)
}

// CheckAvailability -> GET /zones/:zone_id/availability?date=YYYY-MM-DD
func (zc *ZoneController) CheckAvailability(c *gin.Context) {
	zoneID := c.Param("zone_id")
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Zone availability", gin.H{
		"zoneId": zoneID,
		"date":   c.Query("date"),
		"booked": zc.Store.IsZoneBooked(zoneID, date),
	})
}
