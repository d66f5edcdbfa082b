package attachment

import (
	"context"
	"mime/multipart"

	"github.com/Justin66666/teachersLoungeBE/internal/modules/attachment/dto"
	"github.com/Justin66666/teachersLoungeBE/pkg/apperror"
	"github.com/Justin66666/teachersLoungeBE/pkg/storage"
)

// MaxUploadSize bounds a single upload.
const MaxUploadSize = 25 << 20

type AttachmentService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error)
}

type attachmentService struct {
	files storage.FileStorage
}

func NewAttachmentService(files storage.FileStorage) AttachmentService {
	return &attachmentService{files: files}
}

func (s *attachmentService) Upload(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if file == nil || file.Size == 0 {
		return nil, apperror.BadRequest("No file uploaded")
	}
	if file.Size > MaxUploadSize {
		return nil, apperror.BadRequest("File is too large")
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stored, err := s.files.Upload(ctx, f, file.Filename, contentType)
	if err != nil {
		return nil, apperror.Upstream("Error uploading file", err)
	}

	return &dto.UploadResponse{
		Message: "File uploaded successfully",
		Bucket:  stored.Bucket,
		File:    stored.Key,
		URL:     stored.URL,
	}, nil
}
