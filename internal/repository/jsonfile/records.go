package jsonfile

import "github.com/yourusername/testing-platform-api/internal/domain/entity"

// userRecord — представление пользователя в файле.
// Хеш пароля хранится отдельным полем, поскольку entity.User
// исключает его из JSON-сериализации.
type userRecord struct {
	entity.User
	PasswordHash string `json:"password_hash"`
}

func newUserRecord(u *entity.User) *userRecord {
	rec := &userRecord{User: *u}
	rec.PasswordHash = u.Password
	return rec
}

func (r *userRecord) toEntity() *entity.User {
	u := r.User
	u.Password = r.PasswordHash
	return &u
}

// Тесты и результаты сериализуются своими entity-типами без изменений
type (
	quizRecord   = entity.Quiz
	resultRecord = entity.TestResult
)
