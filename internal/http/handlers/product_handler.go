package handlers

import (
	"mime/multipart"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"secondspin/internal/apperr"
	applog "secondspin/internal/log"
	"secondspin/internal/media"
	"secondspin/internal/services"
	"secondspin/internal/validate"
)

// imageSlots are the four optional named multipart file fields.
var imageSlots = [4]string{"image1", "image2", "image3", "image4"}

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List()
	if err != nil {
		return fail(c, "product.list", err)
	}
	return ok(c, fiber.Map{"products": products})
}

func (h *ProductHandler) Single(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "product.single", apperr.Validation("Missing productId"))
	}
	id, okID := validate.ID(req.ProductID)
	if !okID {
		return fail(c, "product.single", apperr.Validation("Missing productId"))
	}
	p, err := h.Catalog.GetById(id)
	if err != nil {
		return fail(c, "product.single", err)
	}
	return ok(c, fiber.Map{"product": p})
}

func (h *ProductHandler) ByCategory(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil || category == "" {
		return fail(c, "product.category", apperr.Validation("Missing category"))
	}
	products, lerr := h.Catalog.ListByCategory(category)
	if lerr != nil {
		return fail(c, "product.category", lerr)
	}
	return ok(c, fiber.Map{"products": products, "category": category})
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	query, err := url.PathUnescape(c.Params("query"))
	if err != nil || query == "" {
		return fail(c, "product.search", apperr.Validation("Missing search query"))
	}
	products, serr := h.Catalog.Search(query)
	if serr != nil {
		return fail(c, "product.search", serr)
	}
	return ok(c, fiber.Map{"products": products, "searchQuery": query})
}

func (h *ProductHandler) Add(c *fiber.Ctx) error {
	uid := userID(c)
	fields := services.CreateFields{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		SubCategory: c.FormValue("subCategory"),
		Condition:   c.FormValue("condition"),
		Price:       c.FormValue("price"),
		Sizes:       c.FormValue("sizes"),
		Bestseller:  c.FormValue("bestseller"),
		Stock:       c.FormValue("stock"),
	}

	files, cleanup, err := openImageSlots(c)
	if err != nil {
		return fail(c, "product.add", apperr.Internal("Could not read uploaded images", err))
	}
	defer cleanup()

	p, err := h.Catalog.Create(c.Context(), uid, fields, files)
	if err != nil {
		return fail(c, "product.add", err)
	}
	applog.Audit(c, "product.add", map[string]any{"product": p.ID})
	return ok(c, fiber.Map{"message": "Product added successfully", "product": p})
}

func (h *ProductHandler) MyProducts(c *fiber.Ctx) error {
	products, err := h.Catalog.ListByOwner(userID(c))
	if err != nil {
		return fail(c, "product.mine", err)
	}
	return ok(c, fiber.Map{"products": products})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	uid := userID(c)
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, "product.update", apperr.Validation("Expected a multipart form"))
	}
	id, okID := validate.ID(firstValue(form, "id"))
	if !okID {
		return fail(c, "product.update", apperr.Validation("Missing product id"))
	}

	// Presence decides: a field absent from the form is left untouched, a
	// present-but-empty one is applied (and validated) as submitted.
	fields := services.UpdateFields{
		Name:        formPtr(form, "name"),
		Description: formPtr(form, "description"),
		Category:    formPtr(form, "category"),
		SubCategory: formPtr(form, "subCategory"),
		Condition:   formPtr(form, "condition"),
		Price:       formPtr(form, "price"),
		Sizes:       formPtr(form, "sizes"),
		Bestseller:  formPtr(form, "bestseller"),
		Status:      formPtr(form, "status"),
		Stock:       formPtr(form, "stock"),
	}

	files, cleanup, err := openImageSlots(c)
	if err != nil {
		return fail(c, "product.update", apperr.Internal("Could not read uploaded images", err))
	}
	defer cleanup()

	p, err := h.Catalog.Update(c.Context(), uid, id, fields, files)
	if err != nil {
		return fail(c, "product.update", err)
	}
	applog.Audit(c, "product.update", map[string]any{"product": p.ID})
	return ok(c, fiber.Map{"message": "Product updated successfully", "product": p})
}

func (h *ProductHandler) Remove(c *fiber.Ctx) error {
	uid := userID(c)
	var req struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "product.remove", apperr.Validation("Missing product id"))
	}
	id, okID := validate.ID(req.ID)
	if !okID {
		return fail(c, "product.remove", apperr.Validation("Missing product id"))
	}
	if err := h.Catalog.Delete(uid, id); err != nil {
		return fail(c, "product.remove", err)
	}
	applog.Audit(c, "product.remove", map[string]any{"product": id})
	return ok(c, fiber.Map{"message": "Product removed successfully"})
}

// openImageSlots opens whichever of the four image fields were supplied,
// in slot order. The cleanup closes every opened file.
func openImageSlots(c *fiber.Ctx) ([]media.File, func(), error) {
	var files []media.File
	var closers []interface{ Close() error }
	cleanup := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}

	for _, slot := range imageSlots {
		fh, err := c.FormFile(slot)
		if err != nil {
			continue // slot not supplied
		}
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, f)
		files = append(files, media.File{Name: fh.Filename, Content: f})
	}
	return files, cleanup, nil
}

func firstValue(form *multipart.Form, key string) string {
	if vs, found := form.Value[key]; found && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func formPtr(form *multipart.Form, key string) *string {
	if vs, found := form.Value[key]; found && len(vs) > 0 {
		v := vs[0]
		return &v
	}
	return nil
}
