package handlers

import (
	"net/http"

	"travelstory/internal/service"

	"github.com/gin-gonic/gin"
)

// multipart form field carrying the upload
const imageFormField = "image"

// @Summary      Upload an image
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file"
// @Success      201    {object}  map[string]string  "imageUrl"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/images [post]
// @Security     BearerAuth
func (h *Handler) uploadImage(c *gin.Context) {
	fh, err := c.FormFile(imageFormField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrNoFile.Error()})
		return
	}

	src, err := fh.Open()
	if err != nil {
		h.respondError(c, err, "image_open_failed", "filename", fh.Filename)
		return
	}
	defer src.Close()

	imageURL, err := h.services.Media.Store(fh.Filename, src)
	if err != nil {
		h.respondError(c, err, "image_store_failed", "filename", fh.Filename)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imageUrl": imageURL})
}

// @Summary      Delete an uploaded image
// @Description  Idempotent: a missing file is treated as success.
// @Tags         images
// @Produce      json
// @Param        imageUrl  query     string  true  "Image reference returned by upload"
// @Success      200       {object}  map[string]string
// @Failure      400       {object}  map[string]string
// @Failure      401       {object}  map[string]string
// @Router       /api/v1/images [delete]
// @Security     BearerAuth
func (h *Handler) deleteImage(c *gin.Context) {
	imageURL := c.Query("imageUrl")
	if imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageUrl parameter is required"})
		return
	}

	if err := h.services.Media.Release(imageURL); err != nil {
		h.respondError(c, err, "image_release_failed", "image_url", imageURL)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
