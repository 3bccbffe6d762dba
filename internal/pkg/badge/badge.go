package badge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/projectreach/reach_go_server/config"
)

// Generator 调用图片生成 API 产出活动纪念徽章
type Generator struct {
	cfg    *config.BadgeConfig
	client *http.Client
}

func NewGenerator(cfg *config.BadgeConfig) *Generator {
	return &Generator{
		cfg: cfg,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type generateRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	Size           string  `json:"size"`
	N              int     `json:"n"`
	ResponseFormat string  `json:"response_format"`
	ImageURL       string  `json:"image_url,omitempty"`
	Strength       float64 `json:"strength,omitempty"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate 根据活动名称生成徽章图片，返回图片字节
func (g *Generator) Generate(ctx context.Context, campaignName string) ([]byte, error) {
	return g.generate(ctx, &generateRequest{
		Model:          g.cfg.Model,
		Prompt:         badgePrompt(campaignName),
		Size:           "1024x1024",
		N:              1,
		ResponseFormat: "url",
	})
}

// GenerateFromImage 以活动宣传图为底图生成徽章
func (g *Generator) GenerateFromImage(ctx context.Context, campaignName, imageURL string) ([]byte, error) {
	return g.generate(ctx, &generateRequest{
		Model:          g.cfg.Model,
		Prompt:         badgePrompt(campaignName),
		Size:           "1024x1024",
		N:              1,
		ResponseFormat: "url",
		ImageURL:       imageURL,
		Strength:       0.6,
	})
}

func (g *Generator) generate(ctx context.Context, reqBody *generateRequest) ([]byte, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal badge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build badge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("badge API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read badge API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("badge API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse badge API response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("badge API error: %s", result.Error.Message)
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return nil, fmt.Errorf("badge API returned no image")
	}

	return g.download(ctx, result.Data[0].URL)
}

func (g *Generator) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image download request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download badge image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("badge image download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func badgePrompt(campaignName string) string {
	return fmt.Sprintf(
		"A celebratory commemorative donation badge for the fundraising campaign %q, "+
			"circular medal design, warm colors, clean vector style, no text artifacts",
		campaignName,
	)
}
