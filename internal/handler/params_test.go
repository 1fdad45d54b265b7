package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestAsOfDate(t *testing.T) {
	t.Run("explicit date", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?date=2026-03-15", nil)
		d, appErr := asOfDate(r)
		require.Nil(t, appErr)
		assert.Equal(t, "2026-03-15", d.Format(dateLayout))
	})

	t.Run("defaults to today", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		d, appErr := asOfDate(r)
		require.Nil(t, appErr)
		assert.Equal(t, today(), d)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?date=yesterday", nil)
		_, appErr := asOfDate(r)
		assert.Equal(t, ErrInvalidRequest, appErr)
	})
}

func TestDateRange(t *testing.T) {
	t.Run("explicit range", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?start_date=2026-01-01&end_date=2026-06-30", nil)
		from, to, appErr := dateRange(r)
		require.Nil(t, appErr)
		assert.Equal(t, "2026-01-01", from.Format(dateLayout))
		assert.Equal(t, "2026-06-30", to.Format(dateLayout))
	})

	t.Run("defaults to year-to-date", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		from, to, appErr := dateRange(r)
		require.Nil(t, appErr)
		assert.Equal(t, today().Year(), from.Year())
		assert.Equal(t, "01-01", from.Format("01-02"))
		assert.Equal(t, today(), to)
	})

	t.Run("rejects bad bound", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?end_date=soon", nil)
		_, _, appErr := dateRange(r)
		assert.Equal(t, ErrInvalidRequest, appErr)
	})
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 50, 0},
		{"explicit", "?limit=20&page=3", 20, 40},
		{"limit capped", "?limit=9999", 50, 0},
		{"page floor", "?page=0", 50, 0},
		{"non-numeric ignored", "?limit=abc&page=xyz", 50, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
			limit, offset := pagination(r)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}
