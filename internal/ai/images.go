package ai

import (
	"context"
	"fmt"
)

// Image is a generated image, either hosted (URL) or inline (base64 PNG).
type Image struct {
	URL     string `json:"url,omitempty"`
	B64JSON string `json:"b64_json,omitempty"`
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []Image `json:"data"`
}

// GenerateImage asks the image service for a single image illustrating prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (Image, error) {
	size := c.cfg.ImageSize
	if size == "" {
		size = "1024x1024"
	}
	body := imageRequest{Model: c.cfg.ImageModel, Prompt: prompt, N: 1, Size: size}
	var out imageResponse
	if err := c.post(ctx, "/images/generations", body, &out); err != nil {
		return Image{}, fmt.Errorf("image generation: %w", err)
	}
	if len(out.Data) == 0 {
		return Image{}, fmt.Errorf("image generation: empty response")
	}
	return out.Data[0], nil
}
