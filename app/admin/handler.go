package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/artemzaharov/goshop/app/api"
	"github.com/artemzaharov/goshop/models"
)

type CategoryWriter interface {
	CreateCategory(category *models.Category) error
}

type ProductWriter interface {
	Resolve(kind models.ProductKind, id uint) (models.Product, error)
	SaveNotebook(notebook *models.Notebook) error
	SaveSmartphone(smartphone *models.Smartphone) error
}

// AdminHandler owns the administrative write surface. The validation rules
// (per-variant category restriction, SD normalization) live in the
// repositories so they hold on every write path, not just here.
type AdminHandler struct {
	categories CategoryWriter
	products   ProductWriter
}

func NewAdminHandler(c CategoryWriter, p ProductWriter) *AdminHandler {
	return &AdminHandler{
		categories: c,
		products:   p,
	}
}

// RequireKey guards the admin routes with a shared-secret header.
func RequireKey(key string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if key == "" || r.Header.Get("X-API-KEY") != key {
			api.WriteError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next(w, r)
	}
}

type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *AdminHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	category := &models.Category{Name: input.Name, Slug: input.Slug}
	if err := h.categories.CreateCategory(category); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]uint{"id": category.ID})
}

// productInput carries the shared product fields of both variants.
type productInput struct {
	CategoryID  uint    `json:"category_id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Image       string  `json:"image"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
}

func (in *productInput) apply(base *models.ProductBase) error {
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return &models.ValidationError{Field: "price", Reason: "malformed decimal"}
	}
	base.CategoryID = in.CategoryID
	base.Title = in.Title
	base.Slug = in.Slug
	base.Image = in.Image
	base.Description = in.Description
	base.Price = price
	return nil
}

type NotebookInput struct {
	productInput
	Diagonal      string `json:"diagonal"`
	DisplayType   string `json:"display_type"`
	ProcessorFreq string `json:"processor_freq"`
	RAM           string `json:"ram"`
	Video         string `json:"video"`
	BatteryLife   string `json:"battery_life"`
}

func (in *NotebookInput) apply(notebook *models.Notebook) error {
	if err := in.productInput.apply(&notebook.ProductBase); err != nil {
		return err
	}
	notebook.Diagonal = in.Diagonal
	notebook.DisplayType = in.DisplayType
	notebook.ProcessorFreq = in.ProcessorFreq
	notebook.RAM = in.RAM
	notebook.Video = in.Video
	notebook.BatteryLife = in.BatteryLife
	return nil
}

type SmartphoneInput struct {
	productInput
	Diagonal     string  `json:"diagonal"`
	DisplayType  string  `json:"display_type"`
	Resolution   string  `json:"resolution"`
	AccumVolume  string  `json:"accum_volume"`
	RAM          string  `json:"ram"`
	SD           bool    `json:"sd"`
	SDVolumeMax  *string `json:"sd_volume_max"`
	MainCamMP    string  `json:"main_cam_mp"`
	FrontalCamMP string  `json:"frontal_cam_mp"`
}

func (in *SmartphoneInput) apply(smartphone *models.Smartphone) error {
	if err := in.productInput.apply(&smartphone.ProductBase); err != nil {
		return err
	}
	smartphone.Diagonal = in.Diagonal
	smartphone.DisplayType = in.DisplayType
	smartphone.Resolution = in.Resolution
	smartphone.AccumVolume = in.AccumVolume
	smartphone.RAM = in.RAM
	smartphone.SD = in.SD
	smartphone.SDVolumeMax = in.SDVolumeMax
	smartphone.MainCamMP = in.MainCamMP
	smartphone.FrontalCamMP = in.FrontalCamMP
	return nil
}

func (h *AdminHandler) HandleCreateNotebook(w http.ResponseWriter, r *http.Request) {
	var input NotebookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var notebook models.Notebook
	if err := input.apply(&notebook); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if err := h.products.SaveNotebook(&notebook); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]uint{"id": notebook.ID})
}

func (h *AdminHandler) HandleUpdateNotebook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input NotebookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	product, err := h.products.Resolve(models.KindNotebook, id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	notebook := product.(*models.Notebook)

	if err := input.apply(notebook); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if err := h.products.SaveNotebook(notebook); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]uint{"id": notebook.ID})
}

func (h *AdminHandler) HandleCreateSmartphone(w http.ResponseWriter, r *http.Request) {
	var input SmartphoneInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var smartphone models.Smartphone
	if err := input.apply(&smartphone); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if err := h.products.SaveSmartphone(&smartphone); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]uint{"id": smartphone.ID})
}

func (h *AdminHandler) HandleUpdateSmartphone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input SmartphoneInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	product, err := h.products.Resolve(models.KindSmartphone, id)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	smartphone := product.(*models.Smartphone)

	if err := input.apply(smartphone); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if err := h.products.SaveSmartphone(smartphone); err != nil {
		api.WriteDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]uint{"id": smartphone.ID})
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
