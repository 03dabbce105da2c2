package models

import "errors"

// ErrEmployeeNotFound возвращается при обновлении несуществующего сотрудника
var ErrEmployeeNotFound = errors.New("employee not found")

// Department - отдел сотрудника
type Department string

const (
	DepartmentNone    Department = "None"
	DepartmentHR      Department = "HR"
	DepartmentPayroll Department = "Payroll"
	DepartmentIT      Department = "IT"
)

// Departments - отделы, которые можно выбрать в форме
var Departments = []Department{DepartmentHR, DepartmentPayroll, DepartmentIT}

// Employee представляет сотрудника в справочнике
type Employee struct {
	ID         int        `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Department Department `db:"department" json:"department"`
	PhotoPath  *string    `db:"photo_path" json:"photo_path,omitempty"` // Имя файла в папке images
}

// HasPhoto сообщает, есть ли у сотрудника загруженное фото
func (e Employee) HasPhoto() bool {
	return e.PhotoPath != nil && *e.PhotoPath != ""
}

// Photo возвращает имя файла фото или пустую строку
func (e Employee) Photo() string {
	if !e.HasPhoto() {
		return ""
	}
	return *e.PhotoPath
}

// SetPhoto записывает имя файла фото, пустое имя сбрасывает фото
func (e *Employee) SetPhoto(name string) {
	if name == "" {
		e.PhotoPath = nil
		return
	}
	e.PhotoPath = &name
}

// HomeDetailsViewModel - данные для страницы сотрудника
type HomeDetailsViewModel struct {
	Employee  *Employee
	PageTitle string
}

// EmployeeCreateViewModel - поля формы создания
// Файлы фото читаются из multipart формы отдельно (поле photos)
type EmployeeCreateViewModel struct {
	Name       string     `form:"name" binding:"required,max=50"`
	Email      string     `form:"email" binding:"required,email"`
	Department Department `form:"department" binding:"required,oneof=HR Payroll IT"`
}

// EmployeeEditViewModel - поля формы редактирования
type EmployeeEditViewModel struct {
	EmployeeCreateViewModel
	ID                int    `form:"id" binding:"required"`
	ExistingPhotoPath string `form:"existing_photo_path"`
}

// FormViewModel - данные для отрисовки формы создания/редактирования
type FormViewModel struct {
	PageTitle   string
	Form        EmployeeEditViewModel
	Errors      map[string]string
	Departments []Department
}

// LoginViewModel - данные для страницы входа
type LoginViewModel struct {
	Username  string
	ReturnURL string
	Error     string
}

// LoginRequest - поля формы входа
type LoginRequest struct {
	Username  string `form:"username" binding:"required"`
	Password  string `form:"password" binding:"required"`
	ReturnURL string `form:"ReturnUrl"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse - стандартный ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}
