package verify

import (
	"encoding/json"
	"log"
	"regexp"
)

const (
	unparsableAnalysis = "Failed to parse AI response"
	unparsableDetail   = "AI analysis could not be parsed"
)

// jsonBlock is greedy: first '{' through last '}', so fenced or chatty replies still match.
var jsonBlock = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractResult pulls the first JSON object out of free model text.
// It never fails; unusable text degrades to a zero-confidence, not-authentic result.
func ExtractResult(content string) Result {
	block := jsonBlock.FindString(content)
	if block == "" {
		return Result{
			Analysis: unparsableAnalysis,
			Details:  []string{},
		}
	}

	var res Result
	if err := json.Unmarshal([]byte(block), &res); err != nil {
		log.Printf("failed to parse AI response: %v", err)
		return Result{
			Analysis: content,
			Details:  []string{unparsableDetail},
		}
	}

	res.Confidence = clampConfidence(res.Confidence)
	if res.Details == nil {
		res.Details = []string{}
	}
	return res
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
