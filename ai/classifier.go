package ai

import (
	"strings"
	"unicode"

	"github.com/jbrukh/bayesian"
)

// ExpenseCategories is the closed taxonomy expense descriptions map into.
var ExpenseCategories = []string{"Rent", "Utilities", "Inventory", "Salaries", "Marketing", "Others"}

const (
	fallbackCategory = "Others"
	// predictions at or below this posterior are overridden to Others
	minClassifyConfidence = 0.4
)

// bootstrapCorpus is the fixed training set for the expense classifier.
var bootstrapCorpus = []struct {
	text     string
	category string
}{
	{"Monthly store rent payment", "Rent"},
	{"Electricity bill for January", "Utilities"},
	{"Water and sewage bill", "Utilities"},
	{"Bulk purchase of groceries", "Inventory"},
	{"Buying milk and bread for stock", "Inventory"},
	{"Salary payment for staff", "Salaries"},
	{"Employee monthly wages", "Salaries"},
	{"Google Ads campaign", "Marketing"},
	{"Facebook promotion", "Marketing"},
	{"Office supplies and stationery", "Others"},
	{"Cleaning services", "Others"},
}

// ExpenseClassifier maps free-text expense descriptions to the category
// taxonomy. It is trained once at construction and read-only afterwards,
// so concurrent inference needs no locking.
type ExpenseClassifier struct {
	model   *bayesian.Classifier
	classes []bayesian.Class
}

// NewExpenseClassifier trains a naive Bayes model on the bootstrap corpus.
func NewExpenseClassifier() *ExpenseClassifier {
	classes := make([]bayesian.Class, len(ExpenseCategories))
	for i, c := range ExpenseCategories {
		classes[i] = bayesian.Class(c)
	}
	model := bayesian.NewClassifier(classes...)
	for _, ex := range bootstrapCorpus {
		model.Learn(tokenize(ex.text), bayesian.Class(ex.category))
	}
	return &ExpenseClassifier{model: model, classes: classes}
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Classify returns the most likely category and its posterior probability.
// Blank descriptions classify as the fallback with zero confidence.
func (c *ExpenseClassifier) Classify(description string) (string, float64) {
	tokens := tokenize(description)
	if len(tokens) == 0 {
		return fallbackCategory, 0
	}
	scores, idx, _ := c.model.ProbScores(tokens)
	return string(c.classes[idx]), scores[idx]
}

// ClassifyExpense maps an expense description to a category. Empty input
// returns "Others" without inference; a low-confidence prediction (posterior
// at or below 0.4) is overridden to "Others" as well.
func (s *Service) ClassifyExpense(description string) string {
	if strings.TrimSpace(description) == "" {
		return fallbackCategory
	}
	category, confidence := s.classifier.Classify(description)
	if confidence <= minClassifyConfidence {
		return fallbackCategory
	}
	return category
}
