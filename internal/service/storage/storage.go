package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Service управляет папкой с фотографиями сотрудников
type Service struct {
	imagesDir string
}

// NewService создает файловый сервис и папку images, если ее нет
func NewService(imagesDir string) (*Service, error) {
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать %s: %w", imagesDir, err)
	}

	return &Service{imagesDir: imagesDir}, nil
}

// SaveUploadedFiles сохраняет все загруженные файлы под уникальными именами
// Возвращает имя последнего сохраненного файла или "" если файлов нет
func (s *Service) SaveUploadedFiles(files []*multipart.FileHeader) (string, error) {
	var uniqueFileName string

	for _, fileHeader := range files {
		uniqueFileName = UniqueFileName(fileHeader.Filename)
		if err := s.saveFile(fileHeader, s.Path(uniqueFileName)); err != nil {
			return "", err
		}
	}

	return uniqueFileName, nil
}

// saveFile копирует один файл на диск, оба дескриптора закрываются до возврата
func (s *Service) saveFile(fileHeader *multipart.FileHeader, destPath string) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("не удалось открыть файл %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("не удалось создать файл %s: %w", destPath, err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", destPath, err)
	}

	return destFile.Close()
}

// DeletePhoto удаляет фото по имени файла, отсутствие файла не ошибка
func (s *Service) DeletePhoto(name string) error {
	if name == "" {
		return nil
	}
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("не удалось удалить %s: %w", name, err)
	}
	return nil
}

// Path возвращает путь к фото на диске
func (s *Service) Path(name string) string {
	return filepath.Join(s.imagesDir, filepath.Base(name))
}

// Dir возвращает папку с фотографиями
func (s *Service) Dir() string {
	return s.imagesDir
}

// UniqueFileName строит имя вида <uuid>_<имя исходного файла>
func UniqueFileName(original string) string {
	return uuid.New().String() + "_" + filepath.Base(original)
}
