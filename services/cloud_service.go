package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tambaqui-prime/models"
)

// CloudService talks to the shared catalog document: a single externally
// hosted JSON blob with no auth and no versioning. Every call is one
// attempt, no retry; callers decide whether a failure matters. Writes
// replace the whole document (last writer wins, accepted product decision).
type CloudService struct {
	url    string
	client *http.Client
}

func NewCloudService(url string) *CloudService {
	return &CloudService{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a document endpoint is configured. Without one
// the store runs in local-only mode.
func (s *CloudService) Enabled() bool {
	return s != nil && s.url != ""
}

func (s *CloudService) Fetch(ctx context.Context) (*models.SharedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloud fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloud fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloud fetch read failed: %w", err)
	}

	var doc models.SharedDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("cloud document malformed: %w", err)
	}
	return &doc, nil
}

func (s *CloudService) Push(ctx context.Context, products []models.Product, coverImage string) error {
	doc := models.SharedDocument{
		Products:      products,
		AppCoverImage: coverImage,
		LastUpdate:    time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("cloud push failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cloud push returned status %d", resp.StatusCode)
	}
	return nil
}
