// Package jsonfile реализует репозитории поверх одного JSON-файла.
// Хранилище предназначено для локального запуска и демо-режима без PostgreSQL:
// весь набор данных помещается в память, каждая мутация переписывает файл.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	apperrors "github.com/yourusername/testing-platform-api/internal/pkg/errors"
)

// storeData — сериализуемое содержимое файла хранилища
type storeData struct {
	Users   []*userRecord   `json:"users"`
	Quizzes []*quizRecord   `json:"quizzes"`
	Results []*resultRecord `json:"results"`
	NextID  map[string]uint `json:"next_id"`
}

// Store — единый файловый бекенд для всех репозиториев.
// Один мьютекс сериализует все мутации, поэтому сохранение результата
// и обновление агрегатов пользователя видны читателям как один шаг.
type Store struct {
	filename string
	mu       sync.RWMutex
	data     storeData
}

// NewStore открывает хранилище, создавая файл при первом запуске
func NewStore(filename string) (*Store, error) {
	s := &Store{filename: filename}

	raw, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		log.Printf("[JSONStore] Файл %s не найден, инициализируем пустое хранилище", filename)
		s.data = storeData{NextID: map[string]uint{}}
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл хранилища %s: %w", filename, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("не удалось разобрать файл хранилища %s: %w", filename, err)
		}
	}
	if s.data.NextID == nil {
		s.data.NextID = map[string]uint{}
	}
	log.Printf("[JSONStore] Загружено: users=%d quizzes=%d results=%d",
		len(s.data.Users), len(s.data.Quizzes), len(s.data.Results))
	return s, nil
}

// nextID выдаёт следующий идентификатор для последовательности.
// Вызывается только под блокировкой записи.
func (s *Store) nextID(seq string) uint {
	s.data.NextID[seq]++
	return s.data.NextID[seq]
}

// persist записывает текущее состояние на диск.
// Вызывается только под блокировкой записи.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: не удалось сериализовать хранилище: %v", apperrors.ErrStorage, err)
	}
	if err := os.WriteFile(s.filename, data, 0644); err != nil {
		return fmt.Errorf("%w: не удалось записать файл хранилища %s: %v", apperrors.ErrStorage, s.filename, err)
	}
	return nil
}
