package server

import (
	"net/http"

	"github.com/careerbridge/careerbridge/internal/db"
	"github.com/careerbridge/careerbridge/internal/server/middleware"
)

// handleListNotifications returns the caller's notifications, newest first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit := queryInt(r, "limit", 50, 200)
	notifications, err := s.db.ListNotifications(r.Context(), identity.UserID, limit)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if notifications == nil {
		notifications = []*db.Notification{}
	}
	s.jsonResponse(w, http.StatusOK, notifications)
}

// handleUnreadCount returns how many notifications are unread.
func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	count, err := s.db.CountUnreadNotifications(r.Context(), identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"unread": count})
}

// handleMarkRead marks one of the caller's notifications as read.
func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}
	marked, err := s.db.MarkNotificationRead(r.Context(), id, identity.UserID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if !marked {
		s.serviceError(w, &ErrNotFound{Resource: "notification"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleMarkAllRead marks every notification of the caller as read.
func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentity(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := s.db.MarkAllNotificationsRead(r.Context(), identity.UserID); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "read"})
}
