package handler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEntryRequestValidate(t *testing.T) {
	validItem := entryItemRequest{AccountID: uuid.NewString()}

	tests := []struct {
		name       string
		req        entryRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  entryRequest{Date: "2026-01-15", Items: []entryItemRequest{validItem}},
		},
		{
			name:       "bad date",
			req:        entryRequest{Date: "15/01/2026", Items: []entryItemRequest{validItem}},
			wantFields: []string{"date"},
		},
		{
			name:       "no items",
			req:        entryRequest{Date: "2026-01-15"},
			wantFields: []string{"items"},
		},
		{
			name: "bad account id",
			req: entryRequest{Date: "2026-01-15", Items: []entryItemRequest{
				{AccountID: "not-a-uuid"},
			}},
			wantFields: []string{"items"},
		},
		{
			name:       "everything wrong at once",
			req:        entryRequest{Date: ""},
			wantFields: []string{"date", "items"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.req.Validate()
			var fields []string
			for _, fe := range errs {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tc.wantFields, fields)
		})
	}
}

func TestEntryRequestToParams(t *testing.T) {
	accountID := uuid.New()
	req := entryRequest{
		Date:        "2026-01-15",
		Reference:   "sale-001",
		Description: "Cash sale",
		Items: []entryItemRequest{
			{AccountID: accountID.String(), Debit: amt(t, "100.00")},
			{AccountID: uuid.NewString(), Credit: amt(t, "100.00")},
		},
	}

	params := req.toParams()
	assert.Equal(t, "2026-01-15", params.Date.Format(dateLayout))
	assert.Equal(t, "sale-001", params.Reference)
	assert.Len(t, params.Items, 2)
	assert.Equal(t, accountID, params.Items[0].AccountID)
	assert.True(t, params.Items[0].Debit.Equal(amt(t, "100.00")))
}
