package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials - неверное имя пользователя или пароль
var ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")

// Service проверяет учетные данные администратора справочника
type Service struct {
	username     string
	passwordHash []byte
}

// NewService создает сервис из bcrypt хэша или, если хэша нет, из открытого пароля
func NewService(username, password, passwordHash string) (*Service, error) {
	if username == "" {
		return nil, errors.New("имя пользователя не задано")
	}

	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("некорректный bcrypt хэш: %w", err)
		}
		return &Service{username: username, passwordHash: []byte(passwordHash)}, nil
	}

	if password == "" {
		return nil, errors.New("пароль не задан")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("не удалось захэшировать пароль: %w", err)
	}

	return &Service{username: username, passwordHash: hash}, nil
}

// Authenticate возвращает ErrInvalidCredentials при несовпадении
func (s *Service) Authenticate(username, password string) error {
	sameUser := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !sameUser || err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
