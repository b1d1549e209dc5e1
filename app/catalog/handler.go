package catalog

import (
	"net/http"

	"github.com/artemzaharov/goshop/app/api"
	"github.com/artemzaharov/goshop/models"
)

type SidebarCategory struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductSummary is the listing view of a product of any kind.
type ProductSummary struct {
	Kind  string  `json:"kind"`
	Title string  `json:"title"`
	Slug  string  `json:"slug"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
	URL   string  `json:"url"`
}

// ProductDetail adds the variant-specific attributes as a flat spec table.
type ProductDetail struct {
	ProductSummary
	Category    Category          `json:"category"`
	Description string            `json:"description,omitempty"`
	Specs       map[string]string `json:"specs"`
}

type HomeResponse struct {
	Categories []SidebarCategory `json:"categories"`
	Products   []ProductSummary  `json:"products"`
}

type CategoryResponse struct {
	Category Category         `json:"category"`
	Products []ProductSummary `json:"products"`
}

type CategoryProvider interface {
	GetSidebarCategories() ([]models.SidebarCategory, error)
	GetBySlug(slug string) (*models.Category, error)
}

type ProductProvider interface {
	Latest(kinds []models.ProductKind, preferred models.ProductKind) ([]models.Product, error)
	GetBySlug(kind models.ProductKind, slug string) (models.Product, error)
	ByCategory(categoryID uint) ([]models.Product, error)
}

type CatalogHandler struct {
	categories CategoryProvider
	products   ProductProvider
}

func NewCatalogHandler(c CategoryProvider, p ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		categories: c,
		products:   p,
	}
}

// HandleHome serves the storefront landing page data: the category sidebar
// and the latest products of every kind. An optional "prefer" query moves one
// kind to the front of the product list.
func (h *CatalogHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	sidebar, err := h.categories.GetSidebarCategories()
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	preferred := models.ProductKind(r.URL.Query().Get("prefer"))
	latest, err := h.products.Latest(models.ProductKinds, preferred)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	categories := make([]SidebarCategory, len(sidebar))
	for i, c := range sidebar {
		categories[i] = SidebarCategory{Name: c.Name, Slug: c.Slug, Count: c.Count}
	}

	api.WriteJSON(w, http.StatusOK, HomeResponse{
		Categories: categories,
		Products:   toSummaries(latest),
	})
}

// HandleCategory serves a category and the products of every kind it holds.
func (h *CatalogHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetBySlug(r.PathValue("slug"))
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	products, err := h.products.ByCategory(category.ID)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, CategoryResponse{
		Category: Category{Name: category.Name, Slug: category.Slug},
		Products: toSummaries(products),
	})
}

// HandleProduct serves a product detail page. The kind segment picks the
// variant table; an unknown kind is rejected before any lookup.
func (h *CatalogHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseKind(r.PathValue("kind"))
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	product, err := h.products.GetBySlug(kind, r.PathValue("slug"))
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toDetail(product))
}

func toSummaries(products []models.Product) []ProductSummary {
	summaries := make([]ProductSummary, len(products))
	for i, p := range products {
		summaries[i] = toSummary(p)
	}
	return summaries
}

func toSummary(p models.Product) ProductSummary {
	base := p.Base()
	return ProductSummary{
		Kind:  string(p.Kind()),
		Title: base.Title,
		Slug:  base.Slug,
		Image: base.Image,
		Price: base.Price.InexactFloat64(),
		URL:   models.ProductURL(p),
	}
}

func toDetail(p models.Product) ProductDetail {
	base := p.Base()
	detail := ProductDetail{
		ProductSummary: toSummary(p),
		Category:       Category{Name: base.Category.Name, Slug: base.Category.Slug},
		Specs:          specsFor(p),
	}
	if base.Description != nil {
		detail.Description = *base.Description
	}
	return detail
}

func specsFor(p models.Product) map[string]string {
	switch v := p.(type) {
	case *models.Notebook:
		return map[string]string{
			"diagonal":       v.Diagonal,
			"display_type":   v.DisplayType,
			"processor_freq": v.ProcessorFreq,
			"ram":            v.RAM,
			"video":          v.Video,
			"battery_life":   v.BatteryLife,
		}
	case *models.Smartphone:
		specs := map[string]string{
			"diagonal":       v.Diagonal,
			"display_type":   v.DisplayType,
			"resolution":     v.Resolution,
			"accum_volume":   v.AccumVolume,
			"ram":            v.RAM,
			"sd":             boolLabel(v.SD),
			"main_cam_mp":    v.MainCamMP,
			"frontal_cam_mp": v.FrontalCamMP,
		}
		if v.SDVolumeMax != nil {
			specs["sd_volume_max"] = *v.SDVolumeMax
		}
		return specs
	}
	return nil
}

func boolLabel(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
