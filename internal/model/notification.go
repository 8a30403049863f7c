package model

import "time"

// NotificationType is the delivery channel of a notification
type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationInApp NotificationType = "in_app"
	NotificationPush  NotificationType = "push"
)

// Valid reports whether t is one of the types the service accepts
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationEmail, NotificationInApp, NotificationPush:
		return true
	}
	return false
}

// NotificationStatus values reported by the notification service
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationRead    NotificationStatus = "read"
)

// Notification is a read-mostly copy of a notification owned by the
// notification service. Status only changes through a confirmed round trip.
type Notification struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Type      NotificationType   `json:"type"`
	Status    NotificationStatus `json:"status"`
	Data      map[string]any     `json:"data,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	ReadAt    *time.Time         `json:"read_at,omitempty"`
}

// IsRead reports whether the notification has been marked read
func (n *Notification) IsRead() bool {
	return n.Status == NotificationRead
}

// CreateNotificationRequest is the body of POST /notifications
type CreateNotificationRequest struct {
	UserID  string           `json:"user_id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Data    map[string]any   `json:"data"`
}

// NotificationResponse wraps a single notification
type NotificationResponse struct {
	Notification *Notification `json:"notification"`
}

// NotificationsResponse wraps a notification collection
type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total,omitempty"`
}

// CountUnread returns the number of notifications not yet read
func CountUnread(list []Notification) int {
	n := 0
	for i := range list {
		if !list[i].IsRead() {
			n++
		}
	}
	return n
}
