package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/testing-platform-api/internal/domain/entity"
	"github.com/yourusername/testing-platform-api/internal/handler/dto"
	"github.com/yourusername/testing-platform-api/internal/service"
)

// StatsHandler обрабатывает сводную статистику и экспорт результатов
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler создает новый обработчик статистики
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Overview обрабатывает GET /api/stats/overview
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.statsService.GetOverview()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOverviewResponse(overview))
}

// Export обрабатывает GET /api/stats/export?format=csv|xlsx
func (h *StatsHandler) Export(c *gin.Context) {
	results, err := h.statsService.AllResults()
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("results_%s", time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	case "csv":
		h.exportCSV(c, results, filename)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

var exportHeaders = []string{
	"ID", "Пользователь", "Тест", "Балл", "Правильных", "Всего вопросов",
	"Минут затрачено", "Категория", "Сложность", "Завершен",
}

func exportRow(r *entity.TestResult) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		strconv.FormatUint(uint64(r.UserID), 10),
		strconv.FormatUint(uint64(r.QuizID), 10),
		strconv.Itoa(r.Score),
		strconv.Itoa(r.CorrectAnswers),
		strconv.Itoa(r.TotalQuestions),
		strconv.Itoa(r.TimeSpentMin),
		sanitizeForExcel(r.Category),
		r.Difficulty,
		r.CompletedAt.Format(time.RFC3339),
	}
}

// exportCSV пишет результаты в ответ в формате CSV
func (h *StatsHandler) exportCSV(c *gin.Context, results []entity.TestResult, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range results {
		writer.Write(exportRow(&results[i]))
	}
}

// exportXLSX пишет результаты в ответ в формате Excel через StreamWriter
func (h *StatsHandler) exportXLSX(c *gin.Context, results []entity.TestResult, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[StatsHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, hdr := range exportHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[StatsHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range results {
		cell := fmt.Sprintf("A%d", i+2)
		fields := exportRow(&results[i])
		row := make([]interface{}, len(fields))
		for j, field := range fields {
			row[j] = field
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[StatsHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[StatsHandler] Ошибка при Flush: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[StatsHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
