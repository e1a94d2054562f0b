package models

import "time"

// ForecastPeriod defines the start and end dates for a forecast.
type ForecastPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// AiAnalysis contains the qualitative insights from the Gemini model.
type AiAnalysis struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

// ForecastNarrativeResponse is the complete structure for the AI narrative
// report endpoint: the computed profit forecast plus Gemini's reading of it.
type ForecastNarrativeResponse struct {
	ReportID       string           `json:"reportId"`
	ReportName     string           `json:"reportName"`
	GeneratedAt    time.Time        `json:"generatedAt"`
	ForecastPeriod ForecastPeriod   `json:"forecastPeriod"`
	Prediction     ProfitPrediction `json:"prediction"`
	AiAnalysis     AiAnalysis       `json:"aiAnalysis"`
}
