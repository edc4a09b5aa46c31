package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dialoom/pkg/config"
	apperrors "dialoom/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{name: "defaults", query: "", wantLimit: 10, wantOffset: 0},
		{name: "explicit", query: "?limit=25&offset=50", wantLimit: 25, wantOffset: 50},
		{name: "clamped limit", query: "?limit=100000", wantLimit: config.DefaultPaginationLimit, wantOffset: 0},
		{name: "negative offset", query: "?offset=-4", wantLimit: 10, wantOffset: 0},
		{name: "alphabetic limit", query: "?limit=abc", wantErr: true},
		{name: "alphabetic offset", query: "?offset=xyz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings"+tt.query, nil)
			limit, offset, err := ExtractLimitOffset(req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Reason string `json:"reason"`
	}

	t.Run("valid body", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"sick"}`))
		require.NoError(t, DecodeJSON(req, &p, false))
		assert.Equal(t, "sick", p.Reason)
	})

	t.Run("unknown field", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"x","extra":1}`))
		err := DecodeJSON(req, &p, false)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
	})

	t.Run("empty body allowed", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		assert.NoError(t, DecodeJSON(req, &p, true))
	})

	t.Run("empty body rejected", func(t *testing.T) {
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		assert.Error(t, DecodeJSON(req, &p, false))
	})
}
