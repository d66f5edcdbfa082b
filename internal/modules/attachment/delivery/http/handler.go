package handler

import (
	"net/http"

	attachment "github.com/Justin66666/teachersLoungeBE/internal/modules/attachment/service"
	"github.com/Justin66666/teachersLoungeBE/pkg/response"
	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	service attachment.AttachmentService
}

func NewAttachmentHandler(service attachment.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// FileUpload stores the multipart "file" field.
func (h *AttachmentHandler) FileUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, attachment.MaxUploadSize+(1<<20))

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded")
		return
	}

	resp, err := h.service.Upload(c.Request.Context(), file)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
