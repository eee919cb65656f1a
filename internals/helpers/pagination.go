package helper

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 200
)

type PageParams struct {
	Page    int
	PerPage int
}

type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParsePage lit ?page= et ?per_page= avec bornes.
func ParsePage(c *fiber.Ctx) PageParams {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = DefaultPage
	}
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p PageParams) Meta(total int64) PageMeta {
	totalPages := int(math.Ceil(float64(total) / float64(p.PerPage)))
	return PageMeta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

// JsonPage enveloppe une liste paginee.
func JsonPage(c *fiber.Ctx, message string, data interface{}, meta PageMeta) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"code":       fiber.StatusOK,
		"status":     "success",
		"message":    message,
		"data":       data,
		"pagination": meta,
	})
}
