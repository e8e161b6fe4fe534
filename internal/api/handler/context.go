package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// ctxIdentity returns the identity established by the Authenticate
// middleware. Its absence means the route was mounted without it.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator on it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("Invalid request payload.")
	}
	return c.Validate(req)
}

// bindFields decodes the request body as a raw field set. Only the body is
// read, so path parameters never leak into a whitelisted update.
func bindFields(c echo.Context) (map[string]any, error) {
	fields := map[string]any{}
	if err := new(echo.DefaultBinder).BindBody(c, &fields); err != nil {
		return nil, domain.Validation("Invalid request payload.")
	}
	return fields, nil
}

// pageParam reads the 1-based ?page query parameter.
func pageParam(c echo.Context) (domain.Page, error) {
	page := 1
	if err := echo.QueryParamsBinder(c).Int("page", &page).BindError(); err != nil {
		return domain.Page{}, domain.Validation("page must be an integer.")
	}
	return domain.NewPage(page, domain.DefaultPageSize), nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formString returns a pointer to the named form value, or nil when the
// field was not submitted.
func formString(form url.Values, name string) *string {
	if _, ok := form[name]; !ok {
		return nil
	}
	v := form.Get(name)
	return &v
}

func formFloat(form url.Values, name string) (*float64, error) {
	s := formString(form, name)
	if s == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil, domain.Validation(name + " must be a number.")
	}
	return &v, nil
}

func formInt(form url.Values, name string) (*int, error) {
	s := formString(form, name)
	if s == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.Validation(name + " must be an integer.")
	}
	return &v, nil
}

// formIDs accepts repeated values (categoryIds=1&categoryIds=2), the
// bracketed form and comma separated lists. ok is false when the field was
// not submitted.
func formIDs(form url.Values, name string) (ids []uint, ok bool, err error) {
	raw, present := form[name]
	if more, bracketed := form[name+"[]"]; bracketed {
		raw, present = append(raw, more...), true
	}
	if !present {
		return nil, false, nil
	}

	ids = []uint{}
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, true, domain.Validation(name + " must be a list of category ids.")
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, true, nil
}

// uploadImage stores the optional "image" file of a multipart request and
// returns its reference, or nil when no file was sent.
func uploadImage(c echo.Context, images ports.ImageService) (*string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Validation("Invalid image upload.")
	}
	ref, err := storeFile(c, images, fh)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func storeFile(c echo.Context, images ports.ImageService, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", domain.Validation("Invalid image upload.")
	}
	defer f.Close()

	return images.Upload(c.Request().Context(), ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	})
}
