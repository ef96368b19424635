package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-product-catalog/internal/domain"
	"go-product-catalog/internal/storage"
	"go-product-catalog/internal/transport/http/middleware"
	"go-product-catalog/internal/transport/http/response"
)

type ProductHandler struct {
	products domain.ProductRepository
	store    *storage.Store
}

func NewProductHandler(products domain.ProductRepository, store *storage.Store) *ProductHandler {
	return &ProductHandler{products: products, store: store}
}

func (h *ProductHandler) MountProtected(g *gin.RouterGroup) {
	g.GET("/get-product", h.GetProducts)
	g.POST("/create-product", h.CreateProduct)
	g.PUT("/update-product/:id", h.UpdateProduct)
	g.POST("/delete-product", h.DeleteProduct)
}

// GetProducts runs the listing composer: search, category and price
// filters AND-ed together, sorted and cut into fixed pages of 6.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, response.Unauthorized("User unauthorized!"))
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			response.Fail(c, response.BadRequest("Invalid page number!"))
			return
		}
		page = v
	}

	priceMin, err := parsePrice(c.Query("priceMin"))
	if err != nil {
		response.Fail(c, response.BadRequest("Invalid price range!"))
		return
	}
	priceMax, err := parsePrice(c.Query("priceMax"))
	if err != nil {
		response.Fail(c, response.BadRequest("Invalid price range!"))
		return
	}
	if priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		response.Fail(c, response.BadRequest("Invalid price range!"))
		return
	}

	res, err := h.products.List(c.Request.Context(), domain.ProductQuery{
		UserID:   p.UserID,
		Search:   c.Query("search"),
		Category: c.Query("category"),
		PriceMin: priceMin,
		PriceMax: priceMax,
		SortBy:   c.Query("sortBy"),
		Page:     page,
	})
	if err != nil {
		response.Fail(c, response.Internal("list products", err))
		return
	}

	title := "Products retrieved."
	if len(res.Items) == 0 {
		title = "No products found."
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       true,
		"title":        title,
		"products":     res.Items,
		"current_page": res.Page,
		"total":        res.Total,
		"pages":        res.Pages,
	})
}

type productForm struct {
	Name     string `form:"name"`
	Desc     string `form:"desc"`
	Price    string `form:"price"`
	Discount string `form:"discount"`
	Category string `form:"category"`
}

// fields parses the form into typed values, applying the legacy defaults
// (discount 0, category "General").
func (f *productForm) fields() (price, discount float64, category string, err error) {
	price, err = strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return 0, 0, "", err
	}
	discount = 0
	if f.Discount != "" {
		discount, err = strconv.ParseFloat(f.Discount, 64)
		if err != nil {
			return 0, 0, "", err
		}
	}
	category = f.Category
	if category == "" {
		category = domain.DefaultCategory
	}
	return price, discount, category, nil
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, response.Unauthorized("User unauthorized!"))
		return
	}

	var form productForm
	if err := c.ShouldBind(&form); err != nil || form.Name == "" || form.Desc == "" || form.Price == "" {
		response.Fail(c, response.BadRequest("Add proper parameter first!"))
		return
	}
	price, discount, category, err := form.fields()
	if err != nil {
		response.Fail(c, response.BadRequest("Add proper parameter first!"))
		return
	}

	image, err := h.store.SaveImage(formFile(c, "product_image"))
	if err != nil {
		response.Fail(c, response.Internal("save product image", err))
		return
	}

	prod := &domain.Product{
		Name:     form.Name,
		Desc:     form.Desc,
		Price:    price,
		Discount: discount,
		Category: category,
		Image:    image,
		UserID:   p.UserID,
	}
	if err := h.products.Create(c.Request.Context(), prod); err != nil {
		response.Fail(c, response.Internal("create product", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"title":  "Product Added successfully.",
	})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, response.Unauthorized("User unauthorized!"))
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest("Add proper parameter first!"))
		return
	}

	var form productForm
	if err := c.ShouldBind(&form); err != nil || form.Name == "" || form.Desc == "" || form.Price == "" {
		response.Fail(c, response.BadRequest("Add proper parameter first!"))
		return
	}
	price, discount, category, err := form.fields()
	if err != nil {
		response.Fail(c, response.BadRequest("Add proper parameter first!"))
		return
	}

	image, err := h.store.SaveImage(formFile(c, "product_image"))
	if err != nil {
		response.Fail(c, response.Internal("save product image", err))
		return
	}

	ok, err = h.products.Update(c.Request.Context(), uint(id), p.UserID, domain.ProductUpdate{
		Name:     form.Name,
		Desc:     form.Desc,
		Price:    price,
		Discount: discount,
		Category: category,
		Image:    image,
	})
	if err != nil {
		response.Fail(c, response.Internal("update product", err))
		return
	}
	if !ok {
		response.Fail(c, response.NotFound("Product not found!"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"title":  "Product updated successfully.",
	})
}

type deleteProductReq struct {
	ID uint `json:"id" form:"id"`
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	p, ok := middleware.Principal(c)
	if !ok {
		response.Fail(c, response.Unauthorized("User unauthorized!"))
		return
	}

	var req deleteProductReq
	if err := c.ShouldBind(&req); err != nil || req.ID == 0 {
		response.Fail(c, response.BadRequest("Product ID is required!"))
		return
	}

	ok, err := h.products.SoftDelete(c.Request.Context(), req.ID, p.UserID)
	if err != nil {
		response.Fail(c, response.Internal("delete product", err))
		return
	}
	if !ok {
		// already deleted or owned by someone else, both look the same
		response.Fail(c, response.NotFound("Product not found!"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": true,
		"title":  "Product deleted successfully.",
	})
}

func parsePrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
