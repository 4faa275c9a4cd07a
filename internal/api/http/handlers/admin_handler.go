package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the administrative user-list screens. Role
// restriction happens in the route guard, not here.
type AdminHandler struct {
	api PortalAPI
}

// NewAdminHandler constructs handler.
func NewAdminHandler(api PortalAPI) *AdminHandler {
	return &AdminHandler{api: api}
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 25)

	users, err := h.api.Users(c.UserContext(), token, page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": users})
}
