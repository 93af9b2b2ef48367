package order

import (
	"net/url"
	"testing"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Status
		wantErr bool
	}{
		{name: "pending", in: "pending", want: PENDING},
		{name: "shipped", in: "shipped", want: SHIPPED},
		{name: "delivered", in: "delivered", want: DELIVERED},
		{name: "cancelled", in: "cancelled", want: CANCELLED},
		{name: "capitalized", in: "Pending", wantErr: true},
		{name: "upper case", in: "SHIPPED", wantErr: true},
		{name: "surrounding spaces", in: " delivered ", wantErr: true},
		{name: "american spelling", in: "canceled", wantErr: true},
		{name: "not in enumeration", in: "archived", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidStatus)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestStatusesReturnsCopy(t *testing.T) {
	s := Statuses()
	require.Len(t, s, 4)
	s[0] = "archived"
	assert.Equal(t, PENDING, Statuses()[0])
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)
	assert.Equal(t, "42", id.String())

	for _, in := range []string{"", "0", "-3", "abc", "1.5"} {
		_, err = ParseID(in)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest, in)
	}
}

func TestFilterQueryRoundTrip(t *testing.T) {
	f := Filter{Status: SHIPPED, Page: 3, Limit: 50}

	q := f.Query()
	assert.Equal(t, "limit=50&page=3&status=shipped", q.Encode())

	got, err := ParseFilter(q)
	require.NoError(t, err)
	assert.Equal(t, f, got)
	assert.Equal(t, 100, got.Offset())
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Filter
		wantErr error
	}{
		{
			name:  "defaults",
			query: "",
			want:  Filter{Page: DefaultPage, Limit: DefaultLimit},
		},
		{
			name:  "status only",
			query: "status=cancelled",
			want:  Filter{Status: CANCELLED, Page: DefaultPage, Limit: DefaultLimit},
		},
		{
			name:    "unknown status",
			query:   "status=Shipped",
			wantErr: errs.ErrInvalidStatus,
		},
		{
			name:    "zero page",
			query:   "page=0",
			wantErr: errs.ErrInvalidRequest,
		},
		{
			name:    "limit too big",
			query:   "limit=101",
			wantErr: errs.ErrInvalidRequest,
		},
		{
			name:    "limit not a number",
			query:   "limit=ten",
			wantErr: errs.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseFilter(q)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
