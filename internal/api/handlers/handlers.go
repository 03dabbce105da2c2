package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"employee-directory/internal/api/middleware"
	"employee-directory/internal/api/websocket"
	"employee-directory/internal/models"
	"employee-directory/internal/repository"
	"employee-directory/internal/service/cache"
	"employee-directory/internal/service/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	// PhotosField - имя поля multipart формы с фотографиями
	PhotosField = "photos"

	detailsPageTitle = "Employee Details"
)

// Handler содержит все зависимости для обработки HTTP запросов
type Handler struct {
	repo      repository.EmployeeRepository
	storage   *storage.Service
	cache     *cache.Service
	wsManager *websocket.Manager
}

// NewHandler создает новый handler с зависимостями
// cache может быть nil - тогда карточки всегда читаются из БД
func NewHandler(
	repo repository.EmployeeRepository,
	storage *storage.Service,
	cache *cache.Service,
	wsManager *websocket.Manager,
) *Handler {
	return &Handler{
		repo:      repo,
		storage:   storage,
		cache:     cache,
		wsManager: wsManager,
	}
}

// ============ LIST / DETAILS ============

// Index показывает всех сотрудников
func (h *Handler) Index(c *gin.Context) {
	employees, err := h.repo.GetAllEmployees(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "не удалось получить список сотрудников")
		return
	}

	render(c, http.StatusOK, "index.html", "Employee List", employees)
}

// Details показывает карточку сотрудника или 404
func (h *Handler) Details(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		notFound(c, c.Query("id"))
		return
	}

	employee, err := h.loadEmployee(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "не удалось получить сотрудника")
		return
	}
	if employee == nil {
		notFound(c, id)
		return
	}

	render(c, http.StatusOK, "details.html", detailsPageTitle, models.HomeDetailsViewModel{
		Employee:  employee,
		PageTitle: detailsPageTitle,
	})
}

// ============ CREATE ============

// CreateForm показывает пустую форму создания
func (h *Handler) CreateForm(c *gin.Context) {
	render(c, http.StatusOK, "create.html", "Create Employee", formModel(models.EmployeeEditViewModel{}, nil))
}

// Create сохраняет фото, добавляет сотрудника и перенаправляет на его карточку
func (h *Handler) Create(c *gin.Context) {
	var form models.EmployeeCreateViewModel
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "create.html", "Create Employee",
			formModel(models.EmployeeEditViewModel{EmployeeCreateViewModel: form}, err))
		return
	}

	uniqueFileName, err := h.storage.SaveUploadedFiles(uploadedPhotos(c))
	if err != nil {
		h.serverError(c, err, "не удалось сохранить фото")
		return
	}

	employee := &models.Employee{
		Name:       form.Name,
		Email:      form.Email,
		Department: form.Department,
	}
	employee.SetPhoto(uniqueFileName)

	employee, err = h.repo.AddEmployee(c.Request.Context(), employee)
	if err != nil {
		h.serverError(c, err, "не удалось добавить сотрудника")
		return
	}

	log.Info().Int("employee_id", employee.ID).Msg("Сотрудник добавлен")
	h.notify(websocket.MessageTypeEmployeeCreated, employee.ID, employee)

	c.Redirect(http.StatusFound, DetailsURL(employee.ID))
}

// ============ EDIT ============

// EditForm показывает форму редактирования с текущими данными
func (h *Handler) EditForm(c *gin.Context) {
	id, ok := employeeID(c)
	if !ok {
		notFound(c, c.Query("id"))
		return
	}

	employee, err := h.repo.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "не удалось получить сотрудника")
		return
	}
	if employee == nil {
		notFound(c, id)
		return
	}

	render(c, http.StatusOK, "edit.html", "Edit Employee", formModel(models.EmployeeEditViewModel{
		EmployeeCreateViewModel: models.EmployeeCreateViewModel{
			Name:       employee.Name,
			Email:      employee.Email,
			Department: employee.Department,
		},
		ID:                employee.ID,
		ExistingPhotoPath: employee.Photo(),
	}, nil))
}

// Edit обновляет сотрудника и, если пришло новое фото, заменяет старое
func (h *Handler) Edit(c *gin.Context) {
	var form models.EmployeeEditViewModel
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "edit.html", "Edit Employee", formModel(form, err))
		return
	}

	ctx := c.Request.Context()

	employee, err := h.repo.GetEmployee(ctx, form.ID)
	if err != nil {
		h.serverError(c, err, "не удалось получить сотрудника")
		return
	}
	if employee == nil {
		notFound(c, form.ID)
		return
	}

	employee.Name = form.Name
	employee.Email = form.Email
	employee.Department = form.Department

	if photos := uploadedPhotos(c); len(photos) > 0 {
		// Старое фото удаляется до загрузки нового, ошибка удаления не мешает обновлению
		h.deletePhoto(employee.Photo())

		uniqueFileName, err := h.storage.SaveUploadedFiles(photos)
		if err != nil {
			h.serverError(c, err, "не удалось сохранить фото")
			return
		}
		employee.SetPhoto(uniqueFileName)
	}

	if _, err := h.repo.UpdateEmployee(ctx, employee); err != nil {
		if errors.Is(err, models.ErrEmployeeNotFound) {
			notFound(c, employee.ID)
			return
		}
		h.serverError(c, err, "не удалось обновить сотрудника")
		return
	}

	h.invalidate(ctx, employee.ID)
	h.notify(websocket.MessageTypeEmployeeUpdated, employee.ID, employee)

	c.Redirect(http.StatusFound, IndexURL)
}

// ============ DELETE ============

// Delete удаляет сотрудника вместе с фото
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.PostForm("id"))
	if err != nil {
		notFound(c, c.PostForm("id"))
		return
	}

	employee, err := h.removeEmployee(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "не удалось удалить сотрудника")
		return
	}
	if employee == nil {
		notFound(c, id)
		return
	}

	c.Redirect(http.StatusFound, IndexURL)
}

// removeEmployee удаляет запись, фото и кэш; nil если сотрудника не было
func (h *Handler) removeEmployee(ctx context.Context, id int) (*models.Employee, error) {
	employee, err := h.repo.DeleteEmployee(ctx, id)
	if err != nil || employee == nil {
		return nil, err
	}

	h.deletePhoto(employee.Photo())
	h.invalidate(ctx, id)
	h.notify(websocket.MessageTypeEmployeeDeleted, id, nil)

	log.Info().Int("employee_id", id).Msg("Сотрудник удален")
	return employee, nil
}

// ============ HELPERS ============

// IndexURL - адрес списка сотрудников
const IndexURL = "/Home/Index"

// DetailsURL возвращает адрес карточки сотрудника
func DetailsURL(id int) string {
	return fmt.Sprintf("/Home/Details?id=%d", id)
}

// loadEmployee читает карточку из кэша, затем из БД
func (h *Handler) loadEmployee(ctx context.Context, id int) (*models.Employee, error) {
	if h.cache != nil {
		if employee, err := h.cache.GetEmployee(ctx, id); err == nil && employee != nil {
			return employee, nil
		}
	}

	employee, err := h.repo.GetEmployee(ctx, id)
	if err != nil || employee == nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetEmployee(ctx, employee); err != nil {
			log.Warn().Err(err).Int("employee_id", id).Msg("Не удалось сохранить сотрудника в кэш")
		}
	}

	return employee, nil
}

func (h *Handler) invalidate(ctx context.Context, id int) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateEmployee(ctx, id); err != nil {
		log.Warn().Err(err).Int("employee_id", id).Msg("Не удалось инвалидировать кэш")
	}
}

func (h *Handler) notify(messageType websocket.MessageType, id int, payload interface{}) {
	if h.wsManager != nil {
		h.wsManager.BroadcastEmployeeEvent(messageType, id, payload)
	}
}

// deletePhoto удаляет файл без проверки результата, ошибка только логируется
func (h *Handler) deletePhoto(name string) {
	if name == "" {
		return
	}
	if err := h.storage.DeletePhoto(name); err != nil {
		log.Warn().Err(err).Str("photo", name).Msg("Не удалось удалить старое фото")
	}
}

func (h *Handler) serverError(c *gin.Context, err error, msg string) {
	log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg(msg)
	render(c, http.StatusInternalServerError, "error.html", "Error", c.GetString(middleware.RequestIDKey))
}

// render заполняет общие для всех страниц данные layout
func render(c *gin.Context, status int, name, title string, model interface{}) {
	c.HTML(status, name, gin.H{
		"Title": title,
		"User":  c.GetString(middleware.UserKey),
		"Model": model,
	})
}

func notFound(c *gin.Context, id interface{}) {
	render(c, http.StatusNotFound, "not_found.html", "Employee Not Found", id)
}

// employeeID берет id из пути (/Home/Details/5) или из query (?id=5)
func employeeID(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// uploadedPhotos возвращает файлы из поля photos, для не multipart запросов - nil
func uploadedPhotos(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[PhotosField]
}

func formModel(form models.EmployeeEditViewModel, err error) models.FormViewModel {
	return models.FormViewModel{
		Form:        form,
		Errors:      formErrors(err),
		Departments: models.Departments,
	}
}

// formErrors превращает ошибку биндинга в сообщения для полей формы
func formErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"Form": "Invalid form data"}
	}

	messages := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		messages[fe.Field()] = fieldMessage(fe)
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "email":
		return "Invalid email format"
	case "oneof":
		return fmt.Sprintf("Please select a valid %s", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
