package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/artemzaharov/goshop/models"
)

// --- Mocks ---

// MockCartRepo reproduces the repository contract in memory: resolve the
// reference, merge line items, recompute totals on every mutation.
type MockCartRepo struct {
	Products []models.Product

	carts      map[uint]*models.Cart
	bySession  map[string]uint
	byCustomer map[uint]uint
	nextID     uint
}

func NewMockCartRepo(products ...models.Product) *MockCartRepo {
	return &MockCartRepo{
		Products:   products,
		carts:      make(map[uint]*models.Cart),
		bySession:  make(map[string]uint),
		byCustomer: make(map[uint]uint),
	}
}

func (m *MockCartRepo) resolve(kind models.ProductKind, id uint) (models.Product, error) {
	for _, p := range m.Products {
		if p.Kind() == kind && p.Base().ID == id {
			return p, nil
		}
	}
	return nil, models.ErrProductNotFound
}

func (m *MockCartRepo) newCart() *models.Cart {
	m.nextID++
	cart := &models.Cart{ID: m.nextID}
	m.carts[cart.ID] = cart
	return cart
}

func (m *MockCartRepo) GetOrCreateForCustomer(customerID uint) (*models.Cart, error) {
	if id, ok := m.byCustomer[customerID]; ok {
		return m.carts[id], nil
	}
	cart := m.newCart()
	cart.CustomerID = &customerID
	m.byCustomer[customerID] = cart.ID
	return cart, nil
}

func (m *MockCartRepo) GetOrCreateForSession(sessionKey string) (*models.Cart, error) {
	if id, ok := m.bySession[sessionKey]; ok {
		return m.carts[id], nil
	}
	cart := m.newCart()
	cart.SessionKey = &sessionKey
	cart.Anonymous = true
	m.bySession[sessionKey] = cart.ID
	return cart, nil
}

func (m *MockCartRepo) AddItem(cartID uint, kind models.ProductKind, productID uint, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, &models.ValidationError{Field: "qty", Reason: "must be at least 1"}
	}
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	product, err := m.resolve(kind, productID)
	if err != nil {
		return nil, err
	}

	price := product.Base().Price
	merged := false
	for i := range cart.Items {
		if cart.Items[i].Kind == kind && cart.Items[i].ProductID == productID {
			cart.Items[i].Qty += qty
			cart.Items[i].LineTotal = price.Mul(decimal.NewFromInt(int64(cart.Items[i].Qty)))
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartProduct{
			CartID:     cartID,
			ProductRef: models.ProductRef{Kind: kind, ProductID: productID},
			Title:      product.Base().Title,
			Qty:        qty,
			LineTotal:  price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	cart.RecalculateTotals()
	return cart, nil
}

func (m *MockCartRepo) SetQuantity(cartID uint, kind models.ProductKind, productID uint, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, &models.ValidationError{Field: "qty", Reason: "must be at least 1"}
	}
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	product, err := m.resolve(kind, productID)
	if err != nil {
		return nil, err
	}
	for i := range cart.Items {
		if cart.Items[i].Kind == kind && cart.Items[i].ProductID == productID {
			cart.Items[i].Qty = qty
			cart.Items[i].LineTotal = product.Base().Price.Mul(decimal.NewFromInt(int64(qty)))
			cart.RecalculateTotals()
			return cart, nil
		}
	}
	return nil, models.ErrCartItemNotFound
}

func (m *MockCartRepo) RemoveItem(cartID uint, kind models.ProductKind, productID uint) (*models.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	for i := range cart.Items {
		if cart.Items[i].Kind == kind && cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.RecalculateTotals()
			return cart, nil
		}
	}
	return nil, models.ErrCartItemNotFound
}

type MockCustomerRepo struct {
	nextID    uint
	customers map[string]*models.Customer
}

func NewMockCustomerRepo() *MockCustomerRepo {
	return &MockCustomerRepo{customers: make(map[string]*models.Customer)}
}

func (m *MockCustomerRepo) GetOrCreateByIdentity(identityRef string) (*models.Customer, error) {
	if identityRef == "" {
		return nil, &models.ValidationError{Field: "identity_ref", Reason: "must not be empty"}
	}
	if c, ok := m.customers[identityRef]; ok {
		return c, nil
	}
	m.nextID++
	c := &models.Customer{ID: m.nextID, IdentityRef: identityRef}
	m.customers[identityRef] = c
	return c, nil
}

// --- Helpers ---

func fixtureProducts() []models.Product {
	return []models.Product{
		&models.Notebook{ProductBase: models.ProductBase{
			ID: 1, Title: "Aspire 5", Slug: "aspire-5", Price: decimal.NewFromFloat(549.99),
		}},
		&models.Smartphone{ProductBase: models.ProductBase{
			ID: 1, Title: "Pixel 8", Slug: "pixel-8", Price: decimal.NewFromFloat(699.00),
		}},
	}
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	return nil
}

func addItem(t *testing.T, handler *CartHandler, cookie *http.Cookie, body string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	req := httptest.NewRequest("POST", "/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	handler.HandleAddItem(rec, req)
	if c := sessionCookieFrom(t, rec); c != nil {
		cookie = c
	}
	return rec, cookie
}

// --- Tests ---

func TestHandleGetMintsSession(t *testing.T) {
	handler := NewCartHandler(NewMockCartRepo(fixtureProducts()...), NewMockCustomerRepo())

	req := httptest.NewRequest("GET", "/cart", nil)
	rec := httptest.NewRecorder()
	handler.HandleGet(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookieFrom(t, rec)
	assert.NotNil(t, cookie, "first contact must set the session cookie")
	assert.NotEmpty(t, cookie.Value)

	var resp CartResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Anonymous)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.TotalItems)
}

func TestHandleAddItemMergesDuplicates(t *testing.T) {
	handler := NewCartHandler(NewMockCartRepo(fixtureProducts()...), NewMockCustomerRepo())

	body := `{"kind":"smartphone","product_id":1,"qty":1}`
	rec, cookie := addItem(t, handler, nil, body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, cookie)

	rec, _ = addItem(t, handler, cookie, body)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CartResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Items, 1, "same reference must merge into one line item")
	assert.Equal(t, 2, resp.Items[0].Qty)
	assert.Equal(t, 1398.00, resp.Items[0].LineTotal)
	assert.Equal(t, 2, resp.TotalItems)
	assert.Equal(t, 1398.00, resp.TotalPrice)
}

func TestHandleAddItemDistinguishesVariantsWithSameID(t *testing.T) {
	handler := NewCartHandler(NewMockCartRepo(fixtureProducts()...), NewMockCustomerRepo())

	rec, cookie := addItem(t, handler, nil, `{"kind":"notebook","product_id":1,"qty":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = addItem(t, handler, cookie, `{"kind":"smartphone","product_id":1,"qty":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp CartResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Items, 2, "same numeric id in different variants must not merge")
}

func TestHandleAddItemErrors(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		expectedStatusCode int
	}{
		{
			name:               "unknown product",
			body:               `{"kind":"smartphone","product_id":42,"qty":1}`,
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "unsupported kind",
			body:               `{"kind":"tablet","product_id":1,"qty":1}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "zero quantity",
			body:               `{"kind":"smartphone","product_id":1,"qty":0}`,
			expectedStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:               "invalid JSON",
			body:               `{not json`,
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCartHandler(NewMockCartRepo(fixtureProducts()...), NewMockCustomerRepo())
			rec, _ := addItem(t, handler, nil, tc.body)
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}
}

func TestHandleSetQuantity(t *testing.T) {
	handler := NewCartHandler(NewMockCartRepo(fixtureProducts()...), NewMockCustomerRepo())

	rec, cookie := addItem(t, handler, nil, `{"kind":"notebook","product_id":1,"qty":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest("PUT", "/cart/items/notebook/1", strings.NewReader(`{"qty":3}`))
	req.SetPathValue("kind", "notebook")
	req.SetPathValue("id", "1")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.HandleSetQuantity(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Items[0].Qty)
	assert.Equal(t, 1649.97, resp.Items[0].LineTotal)
	assert.Equal(t, 3, resp.TotalItems)
}

func TestHandleRemoveItem(t *testing.T) {
	handler := NewCartHandler(NewMockCartRepo(fixtureProducts()...), NewMockCustomerRepo())

	rec, cookie := addItem(t, handler, nil, `{"kind":"notebook","product_id":1,"qty":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest("DELETE", "/cart/items/notebook/1", nil)
	req.SetPathValue("kind", "notebook")
	req.SetPathValue("id", "1")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.HandleRemoveItem(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.TotalItems)
	assert.Equal(t, 0.0, resp.TotalPrice)

	// Removing again is a 404, the cart no longer holds the item.
	req = httptest.NewRequest("DELETE", "/cart/items/notebook/1", nil)
	req.SetPathValue("kind", "notebook")
	req.SetPathValue("id", "1")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	handler.HandleRemoveItem(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIdentityHeaderUsesCustomerCart(t *testing.T) {
	carts := NewMockCartRepo(fixtureProducts()...)
	handler := NewCartHandler(carts, NewMockCustomerRepo())

	req := httptest.NewRequest("POST", "/cart/items",
		strings.NewReader(`{"kind":"smartphone","product_id":1,"qty":1}`))
	req.Header.Set("X-Identity-Ref", "auth0|abc123")
	rec := httptest.NewRecorder()
	handler.HandleAddItem(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sessionCookieFrom(t, rec), "authenticated requests get no session cookie")

	var resp CartResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Anonymous)
	assert.Equal(t, 1, resp.TotalItems)

	// A second request with the same identity lands in the same cart.
	req = httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set("X-Identity-Ref", "auth0|abc123")
	rec = httptest.NewRecorder()
	handler.HandleGet(rec, req)

	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.TotalItems)
}
