package handlers

import (
	"net/http"
	"strconv"

	"employee-directory/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ============ JSON API ============

// HandleGetEmployees возвращает всех сотрудников
func (h *Handler) HandleGetEmployees(c *gin.Context) {
	employees, err := h.repo.GetAllEmployees(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("не удалось получить список сотрудников")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Ошибка получения сотрудников",
		})
		return
	}

	c.JSON(http.StatusOK, employees)
}

// HandleGetEmployee возвращает сотрудника (с кэшем)
func (h *Handler) HandleGetEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Неверный ID",
		})
		return
	}

	employee, err := h.loadEmployee(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Int("employee_id", id).Msg("не удалось получить сотрудника")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Ошибка получения сотрудника",
		})
		return
	}
	if employee == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Сотрудник не найден",
		})
		return
	}

	c.JSON(http.StatusOK, employee)
}

// HandleDeleteEmployee удаляет сотрудника вместе с фото
func (h *Handler) HandleDeleteEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Неверный ID",
		})
		return
	}

	employee, err := h.removeEmployee(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Int("employee_id", id).Msg("не удалось удалить сотрудника")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "Ошибка удаления сотрудника",
		})
		return
	}
	if employee == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Сотрудник не найден",
		})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: "Сотрудник удален",
	})
}
