package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// NotificationsHandler lists the signed-in user's notifications.
type NotificationsHandler struct {
	api PortalAPI
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(api PortalAPI) *NotificationsHandler {
	return &NotificationsHandler{api: api}
}

// List handles GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	notifications, err := h.api.Notifications(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"notifications": notifications}})
}
