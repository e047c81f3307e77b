package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plushmart/storefront/internal/api"
	"github.com/plushmart/storefront/internal/model"
	"github.com/plushmart/storefront/internal/store"
)

// IntentHandler dispatches UI intents into the store.
type IntentHandler struct {
	store *store.Store
}

func NewIntentHandler(s *store.Store) *IntentHandler {
	return &IntentHandler{store: s}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *IntentHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *IntentHandler) Logout(c *gin.Context) {
	if err := h.store.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type addItemRequest struct {
	ProductID       string         `json:"product_id" binding:"required"`
	Quantity        int            `json:"quantity" binding:"required,min=1"`
	Personalization map[string]any `json:"personalization"`
}

func (h *IntentHandler) AddCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, ok := h.store.ProductByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err := h.store.AddItem(c.Request.Context(), product, req.Quantity, req.Personalization); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "item added"})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *IntentHandler) UpdateCartItem(c *gin.Context) {
	localID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.UpdateQuantity(c.Request.Context(), localID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item updated"})
}

func (h *IntentHandler) RemoveCartItem(c *gin.Context) {
	localID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.store.RemoveItem(c.Request.Context(), localID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (h *IntentHandler) ResyncCart(c *gin.Context) {
	if err := h.store.Resync(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart synchronized"})
}

func (h *IntentHandler) ClearCart(c *gin.Context) {
	h.store.Clear(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

type checkoutIntent struct {
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

func (h *IntentHandler) Checkout(c *gin.Context) {
	var req checkoutIntent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.store.Checkout(c.Request.Context(), model.DeliveryInfo{
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *IntentHandler) RefreshCatalog(c *gin.Context) {
	filters := api.ProductFilters{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	if err := h.store.LoadCatalog(c.Request.Context(), filters); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "catalog refreshed"})
}

func (h *IntentHandler) RefreshOrders(c *gin.Context) {
	if err := h.store.LoadOrders(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "orders refreshed"})
}

func (h *IntentHandler) RefreshDashboard(c *gin.Context) {
	if err := h.store.LoadDashboard(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dashboard refreshed"})
}

// writeError maps store and backend failures onto HTTP statuses. A
// backend fault is a 502 from this layer's point of view: the edge is
// fine, the upstream is not.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	case errors.Is(err, store.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
	case errors.Is(err, store.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case api.IsAuthError(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session rejected by server"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
	}
}
