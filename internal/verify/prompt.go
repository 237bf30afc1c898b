package verify

import "fmt"

const systemPrompt = "You are an expert luxury product authenticator. Analyze product images for authenticity markers, " +
	"craftsmanship quality, and potential counterfeiting signs. Provide a confidence score (0-100) and detailed analysis."

const userPromptFormat = `Analyze this %s %s product (Serial: %s). Assess:
1. Authenticity markers and details
2. Craftsmanship quality
3. Any red flags or concerns
4. Overall confidence score (0-100)

Provide response in JSON format: { "confidence": <number>, "authentic": <boolean>, "analysis": "<string>", "details": ["<detail1>", "<detail2>", ...] }`

type ImageURL struct {
	URL string `json:"url"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// Message content is either a plain string or a list of ContentPart.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// BuildPrompt creates the single chat completion sent per verification.
func BuildPrompt(model string, req Request) ChatRequest {
	return ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: fmt.Sprintf(userPromptFormat, req.Brand, req.Name, req.SerialNumber)},
					{Type: "image_url", ImageURL: &ImageURL{URL: req.ImageURL}},
				},
			},
		},
	}
}
