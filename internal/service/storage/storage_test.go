package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeaders собирает multipart форму и возвращает заголовки файлов
func fileHeaders(t *testing.T, files map[string]string, order []string) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range order {
		part, err := writer.CreateFormFile("photos", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["photos"]
}

func fileExists(svc *Service, name string) bool {
	_, err := os.Stat(svc.Path(name))
	return err == nil
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestNewServiceCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wwwroot", "images")

	svc, err := NewService(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, svc.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveUploadedFilesNoFiles(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	name, err := svc.SaveUploadedFiles(nil)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Empty(t, dirEntries(t, svc.Dir()))
}

func TestSaveUploadedFilesSingle(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	headers := fileHeaders(t, map[string]string{"ann.png": "png-bytes"}, []string{"ann.png"})

	name, err := svc.SaveUploadedFiles(headers)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_ann.png"))
	assert.Len(t, strings.TrimSuffix(name, "_ann.png"), 36)

	data, err := os.ReadFile(svc.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestSaveUploadedFilesLastWins(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	order := []string{"first.png", "second.png", "third.png"}
	headers := fileHeaders(t, map[string]string{
		"first.png":  "1",
		"second.png": "2",
		"third.png":  "3",
	}, order)

	name, err := svc.SaveUploadedFiles(headers)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_third.png"))
	assert.Len(t, dirEntries(t, svc.Dir()), 3)

	data, err := os.ReadFile(svc.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "3", string(data))
}

func TestSaveUploadedFilesStripsDirectories(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	headers := fileHeaders(t, map[string]string{"photo.png": "x"}, []string{"photo.png"})
	headers[0].Filename = "../../etc/photo.png"

	name, err := svc.SaveUploadedFiles(headers)
	require.NoError(t, err)
	assert.NotContains(t, name, "/")
	assert.True(t, fileExists(svc, name))
}

func TestSaveUploadedFilesWriteError(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	headers := fileHeaders(t, map[string]string{"ann.png": "x"}, []string{"ann.png"})

	name, err := svc.SaveUploadedFiles(headers)
	assert.Error(t, err)
	assert.Empty(t, name)
}

func TestDeletePhoto(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(svc.Path("old.png"), []byte("old"), 0644))
	require.True(t, fileExists(svc, "old.png"))

	require.NoError(t, svc.DeletePhoto("old.png"))
	assert.False(t, fileExists(svc, "old.png"))

	// повторное удаление и пустое имя не ошибка
	assert.NoError(t, svc.DeletePhoto("old.png"))
	assert.NoError(t, svc.DeletePhoto(""))
}

func TestUniqueFileName(t *testing.T) {
	a := UniqueFileName("ann.png")
	b := UniqueFileName("ann.png")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_ann.png"))
}
