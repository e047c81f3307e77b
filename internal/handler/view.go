package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plushmart/storefront/internal/model"
	"github.com/plushmart/storefront/internal/store"
	"github.com/plushmart/storefront/internal/view"
)

type ViewHandler struct {
	store *store.Store
}

func NewViewHandler(s *store.Store) *ViewHandler {
	return &ViewHandler{store: s}
}

// Landing reports which view the current role should open on.
func (h *ViewHandler) Landing(c *gin.Context) {
	role := model.RoleCustomer
	if session := h.store.Session(); session != nil {
		role = session.User.Role
	}
	c.JSON(http.StatusOK, gin.H{"view": view.For(role)})
}

func (h *ViewHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, view.BuildHome(h.store))
}

func (h *ViewHandler) Grid(c *gin.Context) {
	c.JSON(http.StatusOK, view.BuildGrid(h.store))
}

func (h *ViewHandler) Cart(c *gin.Context) {
	c.JSON(http.StatusOK, view.BuildCart(h.store))
}

func (h *ViewHandler) Dashboard(c *gin.Context) {
	if !h.requireRole(c, model.RoleAdmin) {
		return
	}
	c.JSON(http.StatusOK, view.BuildDashboard(h.store))
}

func (h *ViewHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, view.BuildProfile(h.store))
}

func (h *ViewHandler) POS(c *gin.Context) {
	if !h.requireRole(c, model.RoleAdmin, model.RoleCashier) {
		return
	}
	c.JSON(http.StatusOK, view.BuildPOS(h.store))
}

func (h *ViewHandler) requireRole(c *gin.Context, roles ...model.Role) bool {
	session := h.store.Session()
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return false
	}
	for _, role := range roles {
		if session.User.Role == role {
			return true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	return false
}
