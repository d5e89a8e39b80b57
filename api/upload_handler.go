package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zeroday-squad/site-backend/errs"
	"github.com/zeroday-squad/site-backend/services"
)

const maxUploadSize = 5 * 1024 * 1024 // 5MB

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	blobStore *services.BlobStore
}

func newUploadHandler(blobStore *services.BlobStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blobStore: blobStore,
	}
}

// upload stores an image in the blob store under
// {userID}/{folder}/{timestamp}.{ext} and returns its public URL.
// @Summary Upload image
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (max 5MB)"
// @Param folder formData string false "Target folder" default(images)
// @Success 200 {object} map[string]string "Public URL of the uploaded image"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing file, not an image, or too large"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Upload failed"
// @Router /upload [post]
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing session"))
			return
		}

		if h.blobStore == nil {
			h.responder.WriteError(w, errs.NewInternalError("file storage is not configured"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		if header.Size > maxUploadSize {
			h.responder.WriteError(w, errs.NewInvalidFieldError("file", "image size must be less than 5MB"))
			return
		}

		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			h.responder.WriteError(w, errs.NewInvalidFieldError("file", "only image uploads are allowed"))
			return
		}

		folder := r.FormValue("folder")
		if folder == "" {
			folder = "images"
		}

		ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
		if ext == "" {
			ext = "bin"
		}

		path := fmt.Sprintf("%s/%s/%d.%s", session.User.ID, folder, time.Now().UnixMilli(), ext)

		url, err := h.blobStore.Upload(r.Context(), path, contentType, file)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("upload failed"))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"path": path,
			"url":  url,
		})
	}
}
