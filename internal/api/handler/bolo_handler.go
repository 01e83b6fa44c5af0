package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/boloflier/bolo-system/internal/api/metrics"
	"github.com/boloflier/bolo-system/internal/core/domain"
	"github.com/boloflier/bolo-system/internal/core/ports"
)

// maxAttachmentBytes caps a single uploaded file at 16 MiB.
const maxAttachmentBytes = 16 << 20

// BoloHandler exposes flier management. Create and Update accept either a
// JSON body or a multipart form carrying attachment files; responses for
// writes are the service's result envelope.
type BoloHandler struct {
	bolos ports.BoloService
}

func NewBoloHandler(bolos ports.BoloService) *BoloHandler {
	return &BoloHandler{bolos: bolos}
}

// Create makes a new flier.
func (h *BoloHandler) Create(c echo.Context) error {
	req, attachments, err := bindBoloRequest(c)
	if err != nil {
		return err
	}

	result := h.bolos.CreateBolo(c.Request().Context(), req.dto("", c), attachments)
	if !result.Success {
		metrics.BoloWritesTotal.WithLabelValues("create", "failure").Inc()
		return c.JSON(http.StatusUnprocessableEntity, result)
	}
	metrics.BoloWritesTotal.WithLabelValues("create", "success").Inc()
	return c.JSON(http.StatusCreated, result)
}

// Update applies a partial change to an existing flier.
func (h *BoloHandler) Update(c echo.Context) error {
	req, attachments, err := bindBoloRequest(c)
	if err != nil {
		return err
	}

	result := h.bolos.UpdateBolo(c.Request().Context(), req.dto(c.Param("id"), c), attachments)
	if !result.Success {
		metrics.BoloWritesTotal.WithLabelValues("update", "failure").Inc()
		return c.JSON(http.StatusUnprocessableEntity, result)
	}
	metrics.BoloWritesTotal.WithLabelValues("update", "success").Inc()
	return c.JSON(http.StatusOK, result)
}

// Get returns one flier by id.
func (h *BoloHandler) Get(c echo.Context) error {
	bolo, err := h.bolos.GetBolo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bolo)
}

// List returns every flier, newest first.
func (h *BoloHandler) List(c echo.Context) error {
	bolos, err := h.bolos.GetBolos(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bolos)
}

// Attachment streams a stored media file.
func (h *BoloHandler) Attachment(c echo.Context) error {
	stream, desc, err := h.bolos.GetAttachment(c.Request().Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		return err
	}
	defer stream.Close()

	contentType := desc.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, stream)
}

// Delete removes a flier by id.
func (h *BoloHandler) Delete(c echo.Context) error {
	receipt, err := h.bolos.RemoveBolo(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, receipt)
}

// bindBoloRequest decodes a JSON or multipart write request. Attachment
// files only arrive through multipart bodies.
func bindBoloRequest(c echo.Context) (boloRequest, []domain.AttachmentUpload, error) {
	var req boloRequest
	if err := c.Bind(&req); err != nil {
		return req, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return req, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	var attachments []domain.AttachmentUpload
	for _, fh := range form.File["attachments"] {
		if fh.Size > maxAttachmentBytes {
			return req, nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "attachment too large")
		}

		f, err := fh.Open()
		if err != nil {
			return req, nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable attachment")
		}
		content, err := io.ReadAll(io.LimitReader(f, maxAttachmentBytes))
		f.Close()
		if err != nil {
			return req, nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable attachment")
		}

		metrics.AttachmentBytesTotal.Add(float64(len(content)))
		attachments = append(attachments, domain.AttachmentUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Content:     content,
		})
	}
	return req, attachments, nil
}
