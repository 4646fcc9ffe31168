package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const maxImageSize = 10 << 20

// FoodEstimate is a model's reading of a meal photo. Nutrients are totals
// for the whole pictured portion.
type FoodEstimate struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Energy       float64 `json:"energy"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	Confidence   string  `json:"confidence"`
	AnalysisText string  `json:"analysis_text"`
}

// ImageEstimator turns a meal photo into a FoodEstimate, either from raw
// bytes or from a URL it downloads itself.
type ImageEstimator interface {
	EstimateImage(ctx context.Context, image []byte, mimeType string) (*FoodEstimate, error)
	EstimateImageURL(ctx context.Context, imageURL string) (*FoodEstimate, error)
}

type AIService struct {
	geminiClient *genai.Client
	model        string
	httpClient   *http.Client
}

func NewAIService(ctx context.Context, geminiAPIKey, model string) (*AIService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(geminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &AIService{
		geminiClient: client,
		model:        model,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *AIService) Close() error {
	return s.geminiClient.Close()
}

const estimatePrompt = `You are a nutritionist estimating the nutrition of the meal in the image.

TASK:
1. Identify the food in the image and give it a short name
2. Estimate the weight of the pictured portion in grams
3. Estimate energy (kcal), protein, carbohydrates, fat and fiber (grams) for the whole portion
4. Assess your confidence (low, medium, high)

REQUIREMENTS:
- Consider standard portion sizes and the plate or bowl size if visible
- If the image shows a nutrition label, prefer its values
- Include likely hidden ingredients such as oil and sauces

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a single valid JSON object and nothing else
- The JSON must have these exact fields:
  {
    "name": "food name",
    "weight": 250,
    "energy": 420,
    "protein": 21.5,
    "carbs": 40,
    "fat": 18,
    "fiber": 4,
    "confidence": "low|medium|high",
    "analysis_text": "one or two sentences on how the numbers were reached"
  }`

// EstimateImage asks Gemini for a FoodEstimate of the pictured meal.
func (s *AIService) EstimateImage(ctx context.Context, image []byte, mimeType string) (*FoodEstimate, error) {
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	model := s.geminiClient.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, genai.Blob{MIMEType: mimeType, Data: image}, genai.Text(estimatePrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("model returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return parseEstimate(text.String())
}

// EstimateImageURL downloads an image and estimates it.
func (s *AIService) EstimateImageURL(ctx context.Context, imageURL string) (*FoodEstimate, error) {
	imageData, mimeType, err := DownloadImage(ctx, s.httpClient, imageURL)
	if err != nil {
		return nil, err
	}
	return s.EstimateImage(ctx, imageData, mimeType)
}

// DownloadImage fetches at most maxImageSize bytes from imageURL and
// returns them with their MIME type, sniffed when the server sends none.
func DownloadImage(ctx context.Context, client *http.Client, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(imageData)
	}
	return imageData, mimeType, nil
}

func parseEstimate(text string) (*FoodEstimate, error) {
	jsonStr := extractJSON(text)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON found in response")
	}
	var result FoodEstimate
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
