package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tauasu/booking-app/store"
	"github.com/tauasu/booking-app/utils"
)

type NotificationController struct {
	Store *store.Store
}

func NewNotificationController(s *store.Store) *NotificationController {
	return &NotificationController{Store: s}
}

// GetNotifications -> the records addressed to the current user, newest
// first, plus the unread badge count.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	username := c.GetString("username")
	notifs := nc.Store.NotificationsFor(username)

	utils.RespondJSON(c, http.StatusOK, "Notifications", gin.H{
		"notifications": notifs,
		"unread":        nc.Store.UnreadCount(username),
	})
}

// MarkRead -> POST /notifications/:notif_id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("notif_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	if err := nc.Store.MarkNotificationRead(uint(id)); err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", gin.H{"id": id})
}

// MarkAllRead -> POST /notifications/read-all
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	username := c.GetString("username")
	if err := nc.Store.MarkAllNotificationsRead(username); err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}
