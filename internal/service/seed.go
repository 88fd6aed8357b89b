package service

import (
	"log"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/domain/repository"
)

// demoQuizzes — стартовый набор тестов для пустого хранилища
var demoQuizzes = []entity.Quiz{
	{
		Title:       "Математика - Основи",
		Description: "Тест з основ математики для підготовки до іспитів",
		Category:    "mathematics",
		Difficulty:  entity.DifficultyEasy,
		Questions: entity.QuestionList{
			{ID: 1, Text: "Скільки буде 2 + 2?", Options: []string{"3", "4", "5", "6"}, Correct: 1},
			{ID: 2, Text: "Яка формула площі кола?", Options: []string{"πr²", "2πr", "πd", "r²"}, Correct: 0},
			{ID: 3, Text: "Скільки градусів у прямому куті?", Options: []string{"45°", "60°", "90°", "180°"}, Correct: 2},
		},
	},
	{
		Title:       "Історія України",
		Description: "Тест з історії України для перевірки знань",
		Category:    "history",
		Difficulty:  entity.DifficultyMedium,
		Questions: entity.QuestionList{
			{ID: 1, Text: "В якому році Україна отримала незалежність?", Options: []string{"1990", "1991", "1992", "1993"}, Correct: 1},
			{ID: 2, Text: "Хто був першим президентом України?", Options: []string{"Леонід Кравчук", "Леонід Кучма", "Віктор Ющенко", "Петро Порошенко"}, Correct: 0},
		},
	},
}

// SeedDemoQuizzes наполняет пустое хранилище демонстрационными тестами.
// Если тесты уже есть, ничего не делает.
func SeedDemoQuizzes(quizRepo repository.QuizRepository) error {
	total, err := quizRepo.Count()
	if err != nil {
		return err
	}
	if total > 0 {
		log.Printf("[Seed] В хранилище уже %d тестов, посев пропущен", total)
		return nil
	}

	quizService := NewQuizService(quizRepo, entity.DefaultTimeLimitMin)
	for i := range demoQuizzes {
		quiz := demoQuizzes[i]
		if err := quizService.Create(&quiz); err != nil {
			return err
		}
		log.Printf("[Seed] Создан тест %q (ID=%d)", quiz.Title, quiz.ID)
	}
	return nil
}
