package handler

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type ProductHandler struct {
	products ports.ProductService
	images   ports.ImageService
}

func NewProductHandler(products ports.ProductService, images ports.ImageService) *ProductHandler {
	return &ProductHandler{products: products, images: images}
}

// Create adds a product. Accepts JSON or multipart with an optional image.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        body   body      createProductRequest  true   "Product"
// @Param        image  formData  file                  false  "Product image"
// @Success      201    {object}  productResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      409    {object}  errorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if isMultipart(c) {
		if req, err = createProductForm(c); err != nil {
			return err
		}
	} else if err := c.Bind(&req); err != nil {
		return domain.Validation("Invalid request payload.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var image string
	if isMultipart(c) {
		ref, err := uploadImage(c, h.images)
		if err != nil {
			return err
		}
		if ref != nil {
			image = *ref
		}
	}

	product, err := h.products.Create(c.Request().Context(), caller.UserID, toCreateProductInput(req, image))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Message: "Product created", Product: product})
}

// List returns a page of products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page            query     int       false  "Page number"
// @Param        categoryName[]  query     []string  false  "Category names"
// @Param        sort            query     string    false  "asc, desc, latest or oldest"
// @Param        search          query     string    false  "Name contains"
// @Success      200             {object}  productsResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	query := c.QueryParams()
	names := slices.Concat(query["categoryName[]"], query["categoryName"])

	result, err := h.products.List(c.Request().Context(), domain.ProductFilter{
		CategoryNames: names,
		Search:        c.QueryParam("search"),
		Sort:          domain.ParseProductSort(c.QueryParam("sort")),
		Page:          page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productsResponse{Products: nonNil(result.Products), Pagination: result.Pagination})
}

// Search runs a full-text product query.
//
// @Summary      Search products
// @Tags         products
// @Produce      json
// @Param        q     query     string  true   "Query"
// @Param        page  query     int     false  "Page number"
// @Success      200   {object}  productsResponse
// @Router       /products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	page, err := pageParam(c)
	if err != nil {
		return err
	}
	result, err := h.products.Search(c.Request().Context(), c.QueryParam("q"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productsResponse{Products: nonNil(result.Products), Pagination: result.Pagination})
}

// Get returns one product.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        productId  path      string  true  "Product id"
// @Success      200        {object}  productResponse
// @Failure      404        {object}  errorResponse
// @Router       /products/{productId} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.products.Get(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: product})
}

// Update applies a partial product update. A categoryIds list replaces the
// product's categories.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      string                true   "Product id"
// @Param        body       body      updateProductRequest  true   "Fields to update"
// @Param        image      formData  file                  false  "Product image"
// @Success      200        {object}  productResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /products/{productId} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if isMultipart(c) {
		if req, err = updateProductForm(c); err != nil {
			return err
		}
	} else if err := c.Bind(&req); err != nil {
		return domain.Validation("Invalid request payload.")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if isMultipart(c) {
		ref, err := uploadImage(c, h.images)
		if err != nil {
			return err
		}
		if ref != nil {
			req.Image = ref
		}
	}

	product, err := h.products.Update(c.Request().Context(), caller.UserID, c.Param("productId"), toUpdateProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Message: "Product updated", Product: product})
}

// Delete soft-deletes a product.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      string  true  "Product id"
// @Success      200        {object}  messageResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /products/{productId} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.Request().Context(), caller.UserID, c.Param("productId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted"})
}

func createProductForm(c echo.Context) (createProductRequest, error) {
	form, err := c.FormParams()
	if err != nil {
		return createProductRequest{}, domain.Validation("Invalid request payload.")
	}

	req := createProductRequest{Name: form.Get("name"), Description: form.Get("description")}
	if price, err := formFloat(form, "price"); err != nil {
		return req, err
	} else if price != nil {
		req.Price = *price
	}
	if stock, err := formInt(form, "stock"); err != nil {
		return req, err
	} else if stock != nil {
		req.Stock = *stock
	}
	if req.CategoryIDs, _, err = formIDs(form, "categoryIds"); err != nil {
		return req, err
	}
	return req, nil
}

func updateProductForm(c echo.Context) (updateProductRequest, error) {
	form, err := c.FormParams()
	if err != nil {
		return updateProductRequest{}, domain.Validation("Invalid request payload.")
	}

	req := updateProductRequest{
		Name:        formString(form, "name"),
		Description: formString(form, "description"),
	}
	if req.Price, err = formFloat(form, "price"); err != nil {
		return req, err
	}
	if req.Stock, err = formInt(form, "stock"); err != nil {
		return req, err
	}
	ids, ok, err := formIDs(form, "categoryIds")
	if err != nil {
		return req, err
	}
	if ok {
		req.CategoryIDs = ids
	}
	return req, nil
}
