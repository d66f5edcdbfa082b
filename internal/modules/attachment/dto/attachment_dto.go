package dto

// UploadResponse describes a stored upload. URL is presigned when the store supports it.
type UploadResponse struct {
	Message string `json:"message"`
	Bucket  string `json:"bucket"`
	File    string `json:"file"`
	URL     string `json:"url"`
}
