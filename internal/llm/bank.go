package llm

import (
	"context"
	"fmt"

	"github.com/prepiq/prepiq-service/internal/models"
)

// BankGenerator serves questions from a built-in bank, padding with
// generic questions when the bank runs short. It needs no network and
// backs deployments without an OpenAI key.
type BankGenerator struct{}

func NewBankGenerator() *BankGenerator {
	return &BankGenerator{}
}

var questionBank = map[string]map[string][]models.QuizQuestion{
	"Physics": {
		"Thermodynamics": {
			{
				Question: "What is the first law of thermodynamics?",
				Options:  []string{"Energy can be created", "Energy cannot be created or destroyed", "Heat flows from cold to hot", "Entropy always increases"},
				Answer:   "Energy cannot be created or destroyed",
			},
			{
				Question: "In an isothermal process, which quantity remains constant?",
				Options:  []string{"Pressure", "Volume", "Temperature", "Entropy"},
				Answer:   "Temperature",
			},
			{
				Question: "What does the Carnot cycle describe?",
				Options:  []string{"Ideal heat engine", "Real heat engine", "Refrigerator only", "Heat pump only"},
				Answer:   "Ideal heat engine",
			},
		},
		"Mechanics": {
			{
				Question: "What is Newton's second law of motion?",
				Options:  []string{"F = ma", "F = mv", "F = m/a", "F = a/m"},
				Answer:   "F = ma",
			},
			{
				Question: "The SI unit of force is:",
				Options:  []string{"Joule", "Newton", "Watt", "Pascal"},
				Answer:   "Newton",
			},
		},
	},
	"Chemistry": {
		"Physical Chemistry": {
			{
				Question: "What is Avogadro's number?",
				Options:  []string{"6.022 × 10²³", "6.022 × 10²²", "3.14 × 10²³", "9.8 × 10²³"},
				Answer:   "6.022 × 10²³",
			},
			{
				Question: "What is the pH of a neutral solution?",
				Options:  []string{"0", "7", "14", "1"},
				Answer:   "7",
			},
		},
		"Organic Chemistry": {
			{
				Question: "Which functional group is present in alcohols?",
				Options:  []string{"-OH", "-COOH", "-CHO", "-NH2"},
				Answer:   "-OH",
			},
		},
	},
	"Biology": {
		"Cell Biology": {
			{
				Question: "What is the powerhouse of the cell?",
				Options:  []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi apparatus"},
				Answer:   "Mitochondria",
			},
			{
				Question: "Which organelle is responsible for protein synthesis?",
				Options:  []string{"Ribosome", "Lysosome", "Chloroplast", "Vacuole"},
				Answer:   "Ribosome",
			},
		},
		"Genetics": {
			{
				Question: "What is the shape of DNA?",
				Options:  []string{"Single helix", "Double helix", "Triple helix", "Circular"},
				Answer:   "Double helix",
			},
		},
	},
	"Maths": {
		"Algebra": {
			{
				Question: "What is the value of x in the equation 2x + 5 = 15?",
				Options:  []string{"5", "10", "7.5", "2.5"},
				Answer:   "5",
			},
			{
				Question: "What is the quadratic formula?",
				Options:  []string{"x = (-b ± √(b²-4ac))/2a", "x = -b/2a", "x = b²-4ac", "x = 2a/b"},
				Answer:   "x = (-b ± √(b²-4ac))/2a",
			},
		},
		"Calculus": {
			{
				Question: "What is the derivative of x²?",
				Options:  []string{"2x", "x", "x²", "2"},
				Answer:   "2x",
			},
		},
	},
}

func (g *BankGenerator) GenerateQuestions(_ context.Context, req GenerationRequest) ([]models.QuizQuestion, error) {
	pool := questionBank[req.Subject][req.Module]
	questions := make([]models.QuizQuestion, 0, req.QuestionCount)
	questions = append(questions, pool...)

	for len(questions) < req.QuestionCount {
		questions = append(questions, models.QuizQuestion{
			Question: fmt.Sprintf("Sample question %d for %s in %s", len(questions)+1, req.Module, req.Subject),
			Options:  []string{"Option A", "Option B", "Option C", "Option D"},
			Answer:   "Option A",
		})
	}
	return questions[:req.QuestionCount], nil
}
