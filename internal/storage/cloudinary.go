package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
)

// CloudinaryClient performs unsigned uploads against a Cloudinary-compatible
// image endpoint: a multipart POST of file, upload_preset and cloud_name,
// answered with a JSON body carrying secure_url.
type CloudinaryClient struct {
	BaseURL   string // e.g. https://api.cloudinary.com/v1_1
	CloudName string
	HTTP      *http.Client
}

func NewCloudinaryClient(baseURL, cloudName string) *CloudinaryClient {
	return &CloudinaryClient{BaseURL: baseURL, CloudName: cloudName, HTTP: http.DefaultClient}
}

func (c *CloudinaryClient) Upload(ctx context.Context, data string, preset string) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	// Data URIs and remote URLs both travel as the plain "file" field.
	if err := form.WriteField("file", data); err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	if err := form.WriteField("upload_preset", preset); err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	if err := form.WriteField("cloud_name", c.CloudName); err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	if err := form.Close(); err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", c.BaseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &UploadError{Preset: preset, Status: resp.StatusCode}
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UploadError{Preset: preset, Err: err}
	}
	if parsed.SecureURL == "" {
		return "", &UploadError{Preset: preset, Err: fmt.Errorf("response missing secure_url")}
	}
	return parsed.SecureURL, nil
}
