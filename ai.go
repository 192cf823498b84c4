package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

const (
	chatModel   = "gemini-3-pro-preview"
	searchModel = "gemini-3-flash-preview"
	imageModel  = "gemini-3-pro-image-preview"
	videoModel  = "veo-3.1-fast-generate-preview"
)

type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// aiProvider is the seam between the handlers and the Gemini backend, so
// tests can swap in a fake.
type aiProvider interface {
	Chat(ctx context.Context, prompt string, thinking bool) (string, error)
	Search(ctx context.Context, query string) (string, []Citation, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	GenerateVideo(ctx context.Context, prompt string) (string, error)
}

var ai aiProvider

type geminiProvider struct {
	client *genai.Client
}

func newGeminiProvider() (*geminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiProvider{client: client}, nil
}

func (g *geminiProvider) Chat(ctx context.Context, prompt string, thinking bool) (string, error) {
	config := &genai.GenerateContentConfig{}
	if thinking {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](32768),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, chatModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}

	return resp.Text(), nil
}

func (g *geminiProvider) Search(ctx context.Context, query string) (string, []Citation, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, searchModel, genai.Text(query), config)
	if err != nil {
		return "", nil, fmt.Errorf("search request: %w", err)
	}

	citations := []Citation{}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web != nil {
				citations = append(citations, Citation{Title: chunk.Web.Title, URI: chunk.Web.URI})
			}
		}
	}

	return resp.Text(), citations, nil
}

func (g *geminiProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: "1:1",
			ImageSize:   "1K",
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, imageModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("image request: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
				return "data:image/png;base64," + encoded, nil
			}
		}
	}

	return "", errors.New("no image in response")
}

func (g *geminiProvider) GenerateVideo(ctx context.Context, prompt string) (string, error) {
	op, err := g.client.Models.GenerateVideos(ctx, videoModel, prompt, nil, nil)
	if err != nil {
		return "", fmt.Errorf("video request: %w", err)
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(10 * time.Second):
		}
		op, err = g.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return "", fmt.Errorf("poll video operation: %w", err)
		}
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return "", errors.New("no video in response")
	}

	return op.Response.GeneratedVideos[0].Video.URI, nil
}
