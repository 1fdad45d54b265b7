package handler

import (
	"net/http"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// asOfDate reads the "date" query parameter, defaulting to today.
func asOfDate(r *http.Request) (time.Time, *AppError) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return today(), nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidRequest
	}
	return d, nil
}

// dateRange reads "start_date"/"end_date", defaulting to calendar
// year-to-date.
func dateRange(r *http.Request) (from, to time.Time, appErr *AppError) {
	now := today()
	from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to = now

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRequest
		}
		from = d
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRequest
		}
		to = d
	}
	return from, to, nil
}

// pagination reads "limit" and "page" with sane bounds. Page numbering is
// 1-based.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	return limit, (page - 1) * limit
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
