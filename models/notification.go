package models

import (
	"strconv"
	"time"
)

// BroadcastTarget is the sentinel target addressing every user.
const BroadcastTarget = "all"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning:
		return true
	}
	return false
}

type Notification struct {
	ID int `json:"id"`
	// UserID is nil for broadcast notifications.
	UserID  *int             `json:"user_id,omitempty"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    time.Time        `json:"date"`
	Read    bool             `json:"read"`
	Type    NotificationType `json:"type"`
}

func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil
}

// Target returns "all" for broadcasts and the recipient id otherwise.
func (n *Notification) Target() string {
	if n.UserID == nil {
		return BroadcastTarget
	}
	return strconv.Itoa(*n.UserID)
}

// VisibleTo reports whether the notification is addressed to userID or to everyone.
func (n *Notification) VisibleTo(userID int) bool {
	return n.UserID == nil || *n.UserID == userID
}
