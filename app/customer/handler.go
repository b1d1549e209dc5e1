package customer

import (
	"encoding/json"
	"net/http"

	"github.com/artemzaharov/goshop/app/api"
	"github.com/artemzaharov/goshop/models"
)

type ProfileResponse struct {
	IdentityRef string `json:"identity_ref"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type CustomerProvider interface {
	GetOrCreateByIdentity(identityRef string) (*models.Customer, error)
	UpdateProfile(customerID uint, phone, address string) (*models.Customer, error)
}

type CustomerHandler struct {
	customers CustomerProvider
}

func NewCustomerHandler(c CustomerProvider) *CustomerHandler {
	return &CustomerHandler{customers: c}
}

// HandleGetProfile serves the profile behind the identity header, creating it
// on first contact. The identity itself comes from the external provider at
// the edge; this service never authenticates.
func (h *CustomerHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customer(r)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(customer))
}

// HandleUpdateProfile rewrites the phone/address profile.
func (h *CustomerHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customer(r)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	var input struct {
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	customer, err = h.customers.UpdateProfile(customer.ID, input.Phone, input.Address)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(customer))
}

func (h *CustomerHandler) customer(r *http.Request) (*models.Customer, error) {
	return h.customers.GetOrCreateByIdentity(r.Header.Get("X-Identity-Ref"))
}

func toResponse(c *models.Customer) ProfileResponse {
	return ProfileResponse{
		IdentityRef: c.IdentityRef,
		Phone:       c.Phone,
		Address:     c.Address,
	}
}
