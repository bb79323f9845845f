package products

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"evolv-store/internal/api"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
)

const uploadDir = "uploads"

var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Seams for tests.
var (
	osMkdirAll = os.MkdirAll
	osCreate   = os.Create
)

// @Summary     Upload a product image
// @Description Stores the image under /uploads and returns its public URL
// @Tags        products
// @Accept      mpfd
// @Produce     json
// @Param       image formData file true "image file"
// @Success     201 {object} api.Response{data=api.UploadData}
// @Failure     400 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /products/upload [post]
func UploadImageHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("image file is required"))
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedImageTypes[ext] {
			return c.JSON(http.StatusBadRequest, api.Error("unsupported image type"))
		}

		src, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		defer src.Close()

		if err := osMkdirAll(uploadDir, 0o755); err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		base := slug.Make(strings.TrimSuffix(fileHeader.Filename, ext))
		if base == "" {
			base = "image"
		}
		name := base + "-" + uuid.NewString() + ext

		dst, err := osCreate(filepath.Join(uploadDir, name))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		defer dst.Close()

		if _, err := io.Copy(dst, src); err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		return c.JSON(http.StatusCreated, api.Success("image uploaded", api.UploadData{
			URL: "/uploads/" + name,
		}))
	}
}
