package cart

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/artemzaharov/goshop/app/api"
	"github.com/artemzaharov/goshop/models"
)

// sessionCookie keys the anonymous cart of a browser session.
const sessionCookie = "cart_session"

type ItemResponse struct {
	Kind      string  `json:"kind"`
	ProductID uint    `json:"product_id"`
	Title     string  `json:"title"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"line_total"`
}

type CartResponse struct {
	ID         uint           `json:"id"`
	Anonymous  bool           `json:"anonymous"`
	Items      []ItemResponse `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice float64        `json:"total_price"`
}

type AddItemRequest struct {
	Kind      string `json:"kind"`
	ProductID uint   `json:"product_id"`
	Qty       int    `json:"qty"`
}

type CartProvider interface {
	GetOrCreateForCustomer(customerID uint) (*models.Cart, error)
	GetOrCreateForSession(sessionKey string) (*models.Cart, error)
	AddItem(cartID uint, kind models.ProductKind, productID uint, qty int) (*models.Cart, error)
	SetQuantity(cartID uint, kind models.ProductKind, productID uint, qty int) (*models.Cart, error)
	RemoveItem(cartID uint, kind models.ProductKind, productID uint) (*models.Cart, error)
}

type CustomerProvider interface {
	GetOrCreateByIdentity(identityRef string) (*models.Customer, error)
}

type CartHandler struct {
	carts     CartProvider
	customers CustomerProvider
}

func NewCartHandler(carts CartProvider, customers CustomerProvider) *CartHandler {
	return &CartHandler{
		carts:     carts,
		customers: customers,
	}
}

// currentCart finds the requester's active cart. An authenticated request
// (identity header set by the edge) gets the customer cart; everything else
// gets an anonymous cart keyed by a session cookie, minting the cookie on
// first contact.
func (h *CartHandler) currentCart(w http.ResponseWriter, r *http.Request) (*models.Cart, error) {
	if identityRef := r.Header.Get("X-Identity-Ref"); identityRef != "" {
		customer, err := h.customers.GetOrCreateByIdentity(identityRef)
		if err != nil {
			return nil, err
		}
		return h.carts.GetOrCreateForCustomer(customer.ID)
	}

	sessionKey := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		sessionKey = cookie.Value
	}
	if sessionKey == "" {
		sessionKey = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sessionKey,
			Path:     "/",
			HttpOnly: true,
		})
	}
	return h.carts.GetOrCreateForSession(sessionKey)
}

// HandleGet serves the current cart, creating an empty one if the requester
// has none yet.
func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	cart, err := h.currentCart(w, r)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(cart))
}

// HandleAddItem adds a product reference to the current cart.
func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var input AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	kind, err := models.ParseKind(input.Kind)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	cart, err := h.currentCart(w, r)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	cart, err = h.carts.AddItem(cart.ID, kind, input.ProductID, input.Qty)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(cart))
}

// HandleSetQuantity replaces the quantity of one line item.
func (h *CartHandler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	kind, productID, ok := h.itemRef(w, r)
	if !ok {
		return
	}

	var input struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cart, err := h.currentCart(w, r)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	cart, err = h.carts.SetQuantity(cart.ID, kind, productID, input.Qty)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(cart))
}

// HandleRemoveItem deletes one line item from the current cart.
func (h *CartHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	kind, productID, ok := h.itemRef(w, r)
	if !ok {
		return
	}

	cart, err := h.currentCart(w, r)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	cart, err = h.carts.RemoveItem(cart.ID, kind, productID)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(cart))
}

func (h *CartHandler) itemRef(w http.ResponseWriter, r *http.Request) (models.ProductKind, uint, bool) {
	kind, err := models.ParseKind(r.PathValue("kind"))
	if err != nil {
		api.WriteDomainError(w, err)
		return "", 0, false
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid product id")
		return "", 0, false
	}
	return kind, uint(id), true
}

func toResponse(cart *models.Cart) CartResponse {
	items := make([]ItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = ItemResponse{
			Kind:      string(item.Kind),
			ProductID: item.ProductID,
			Title:     item.Title,
			Qty:       item.Qty,
			LineTotal: item.LineTotal.InexactFloat64(),
		}
	}
	return CartResponse{
		ID:         cart.ID,
		Anonymous:  cart.Anonymous,
		Items:      items,
		TotalItems: cart.TotalItems,
		TotalPrice: cart.TotalPrice.InexactFloat64(),
	}
}
