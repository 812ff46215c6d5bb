package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/coachbook/internal/domain"
)

const PaginationHeader = "X-Pagination"

// PageMeta is serialized into the X-Pagination response header.
type PageMeta struct {
	Total        int64 `json:"total"`
	TotalPages   int   `json:"total_pages"`
	FirstPage    int   `json:"first_page"`
	LastPage     int   `json:"last_page"`
	Page         int   `json:"page"`
	PreviousPage int   `json:"previous_page,omitempty"`
	NextPage     int   `json:"next_page,omitempty"`
}

func NewPageMeta(page domain.PageRequest, total int64) PageMeta {
	meta := PageMeta{Total: total, Page: page.Page}
	if total == 0 {
		return meta
	}

	meta.TotalPages = int((total + int64(page.PageSize) - 1) / int64(page.PageSize))
	meta.FirstPage = 1
	meta.LastPage = meta.TotalPages
	if page.Page > 1 {
		meta.PreviousPage = page.Page - 1
	}
	if page.Page < meta.TotalPages {
		meta.NextPage = page.Page + 1
	}
	return meta
}

func setPaginationHeader(c *fiber.Ctx, meta PageMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	c.Set(PaginationHeader, string(raw))
	return nil
}

// parsePage reads page and page_size, applying defaults and the size cap.
func parsePage(c *fiber.Ctx, defaultSize, maxSize int) (domain.PageRequest, error) {
	verr := domain.NewValidationError(domain.LocationQuery)
	page := domain.PageRequest{Page: 1, PageSize: defaultSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			verr.Add("page", "Must be greater than or equal to 1.")
		}
		page.Page = n
	}
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n < 1:
			verr.Add("page_size", "Must be greater than or equal to 1.")
		case n > maxSize:
			verr.Add("page_size", "Must be less than or equal to "+strconv.Itoa(maxSize)+".")
		}
		page.PageSize = n
	}

	if !verr.HasErrors() && page.Page > domain.MaxPage(page.PageSize) {
		verr.Add("page", "Must be less than or equal to "+strconv.Itoa(domain.MaxPage(page.PageSize))+".")
	}

	if verr.HasErrors() {
		return domain.PageRequest{}, verr
	}
	return page, nil
}
