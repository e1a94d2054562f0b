package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"app/models"
)

// HandleForecastNarrative computes the profit forecast locally, then asks
// Gemini for a qualitative reading of it.
// GET /api/v1/businesses/:businessId/ai/forecast-narrative
func HandleForecastNarrative(c *fiber.Ctx) error {
	businessID, err := requireMembership(c)
	if err != nil {
		return err
	}

	txns, err := loadTransactions(c.Context(), businessID)
	if err != nil {
		log.Printf("❌ [AI NARRATIVE] ledger query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}

	prediction := aiService.PredictProfit(txns)
	prompt := constructNarrativePrompt(prediction, len(txns))

	ctx := c.Context()
	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to connect to AI service"})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Error from Gemini API: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate narrative from AI"})
	}

	analysis, err := parseNarrativeResponse(resp)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	return c.JSON(models.ForecastNarrativeResponse{
		ReportID:    uuid.NewString(),
		ReportName:  "30-Day Profit Outlook",
		GeneratedAt: now,
		ForecastPeriod: models.ForecastPeriod{
			StartDate: now,
			EndDate:   now.AddDate(0, 0, 30),
		},
		Prediction: prediction,
		AiAnalysis: *analysis,
	})
}

// constructNarrativePrompt creates the analysis prompt for the Gemini API.
func constructNarrativePrompt(p models.ProfitPrediction, txnCount int) string {
	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert retail data analyst. A linear trend model produced the
        following profit forecast for a small business. Write a brief analysis.

        **Forecast:**
        - Predicted 7-day profit: %.2f
        - Predicted 30-day profit: %.2f
        - Forecast confidence: %s
        - Projected 30-day expenses: %.2f
        - Ledger size: %d transactions
        - Today's Date: %s

        **Required Output:**
        You must provide a single, minified JSON object with the following exact
        structure. Do not include any markdown formatting, backticks, or
        explanatory text before or after the JSON object.

        %s
    `, p.SevenDay, p.ThirtyDay, p.Confidence, p.ExpenseForecast, txnCount,
		time.Now().Format("2006-01-02"), jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// parseNarrativeResponse parses the JSON from Gemini into AiAnalysis.
func parseNarrativeResponse(resp *genai.GenerateContentResponse) (*models.AiAnalysis, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content received from AI")
	}

	var geminiText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			geminiText += string(txt)
		}
	}
	if geminiText == "" {
		return nil, fmt.Errorf("no text content received from AI")
	}

	jsonStr := extractJSON(geminiText)
	if jsonStr == "" {
		log.Printf("Could not extract JSON from Gemini response: %s", geminiText)
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var analysis models.AiAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		log.Printf("Error parsing Gemini JSON: %v\nRaw JSON: %s", err, jsonStr)
		return nil, fmt.Errorf("failed to parse AI analysis data")
	}
	return &analysis, nil
}
