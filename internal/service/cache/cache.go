package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"employee-directory/internal/models"

	"github.com/redis/go-redis/v9"
)

// Service кэширует карточки сотрудников в Redis
type Service struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService создает новый cache service
func NewService(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Проверяем подключение
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	return NewServiceWithClient(client, ttl), nil
}

// NewServiceWithClient оборачивает уже созданный клиент
func NewServiceWithClient(client *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{client: client, ttl: ttl}
}

// Close закрывает соединение с Redis
func (s *Service) Close() error {
	return s.client.Close()
}

func employeeKey(id int) string {
	return fmt.Sprintf("employee:%d", id)
}

// GetEmployee получает сотрудника из кэша, nil если записи нет
func (s *Service) GetEmployee(ctx context.Context, id int) (*models.Employee, error) {
	data, err := s.client.Get(ctx, employeeKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var employee models.Employee
	if err := json.Unmarshal(data, &employee); err != nil {
		return nil, err
	}

	return &employee, nil
}

// SetEmployee сохраняет сотрудника в кэш
func (s *Service) SetEmployee(ctx context.Context, employee *models.Employee) error {
	data, err := json.Marshal(employee)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, employeeKey(employee.ID), data, s.ttl).Err()
}

// InvalidateEmployee удаляет сотрудника из кэша
func (s *Service) InvalidateEmployee(ctx context.Context, id int) error {
	return s.client.Del(ctx, employeeKey(id)).Err()
}
