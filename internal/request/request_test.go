package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsApplicationJSONContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{" Application/JSON ", true},
		{"text/plain", false},
		{"", false},
		{"application/jsonp", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		r.Header.Set("Content-Type", tt.contentType)
		assert.Equal(t, tt.want, IsApplicationJSONContentType(r), tt.contentType)
	}
}

func TestDecodeJSON(t *testing.T) {
	type params struct {
		Status string `json:"status"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
		want    string
	}{
		{name: "OK", body: `{"status":"shipped"}`, want: "shipped"},
		{name: "empty body", body: "", wantErr: "invalid payload: empty body"},
		{name: "number", body: `{"status":1}`, wantErr: "invalid payload: status must be of type string, got number"},
		{name: "array", body: `{"status":[]}`, wantErr: "invalid payload: status must be of type string, got array"},
		{name: "syntax", body: `{"status":`, wantErr: "invalid payload: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body))

			var p params
			err := DecodeJSON(r, &p)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, errs.ErrInvalidPayload)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Status)
		})
	}
}

func TestRequireJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")

	err := RequireJSON(r)
	assert.ErrorIs(t, err, errs.ErrInvalidContentType)
	assert.EqualError(t, err, "invalid content type: text/plain; charset=utf-8")
}
