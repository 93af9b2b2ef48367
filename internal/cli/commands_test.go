package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/user"
	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/status"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCommand(t *testing.T) {
	svc := newFakeBackOffice()
	srv := httptest.NewServer(svc.router())
	defer srv.Close()

	t.Run("text", func(t *testing.T) {
		res := run(t, srv, "get", "1")
		require.NoError(t, res.err)

		lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "ID"))
		assert.Equal(t, []string{"1", "pending", "3"}, strings.Fields(lines[1])[:3])
	})

	t.Run("json", func(t *testing.T) {
		res := run(t, srv, "get", "2", "--format", "json")
		require.NoError(t, res.err)

		var o order.Order
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &o))
		assert.Equal(t, order.ID(2), o.ID)
		assert.Equal(t, order.SHIPPED, o.Status)
		assert.Equal(t, "99000.5", o.Total.String())
	})

	t.Run("missing", func(t *testing.T) {
		res := run(t, srv, "get", "9")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "order 9: not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		res := run(t, srv, "get", "first")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), `order id "first"`)
	})
}

func TestListCommand(t *testing.T) {
	svc := newFakeBackOffice()
	srv := httptest.NewServer(svc.router())
	defer srv.Close()

	res := run(t, srv, "list", "--status", "shipped", "--page", "2", "--limit", "5", "--format", "json")
	require.NoError(t, res.err)

	var orders []*order.Order
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID(2), orders[0].ID)
	assert.Equal(t, []string{"limit=5&page=2&status=shipped"}, svc.queries)

	res = run(t, srv, "list")
	require.NoError(t, res.err)
	assert.Len(t, strings.Split(strings.TrimSpace(res.stdout), "\n"), 3)

	res = run(t, srv, "list", "--status", "Shipped")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `invalid status: "Shipped"`)

	res = run(t, srv, "list", "--limit", "500")
	require.Error(t, res.err)
	assert.Len(t, svc.queries, 2, "invalid filters are not sent")
}

func TestSetStatusCommand(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "1=shipped")
		require.NoError(t, res.err)

		assert.Equal(t, []string{"1=shipped"}, svc.patches)
		assert.Contains(t, res.stdout, "updated")
		assert.Empty(t, res.stderr)
		assert.Equal(t, order.SHIPPED, svc.orders[1].Status)
	})

	t.Run("rolled back", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "2=delivered", "--format", "json")
		require.Error(t, res.err)
		assert.Equal(t, "1 of 1 status changes failed", res.err.Error())

		assert.Equal(t, "order 2: update failed\n", res.stderr)

		var results []StatusResult
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
		require.Len(t, results, 1)
		assert.Equal(t, order.SHIPPED, results[0].Status, "previous value restored")
		assert.Equal(t, order.DELIVERED, results[0].Requested)
		assert.Contains(t, results[0].Error, "update failed")
	})

	t.Run("invalid status is never sent", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "1=archived")
		require.Error(t, res.err)

		assert.Empty(t, svc.patches)
		assert.Equal(t, "order 1: invalid status \"archived\"\n", res.stderr)
		assert.Contains(t, res.stdout, "unchanged")
	})

	t.Run("mixed", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "1=cancelled", "2=delivered", "--format", "json")
		require.Error(t, res.err)
		assert.Equal(t, "1 of 2 status changes failed", res.err.Error())

		var results []StatusResult
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
		require.Len(t, results, 2)
		assert.Equal(t, StatusResult{OrderID: 1, Status: order.CANCELLED, Requested: order.CANCELLED}, results[0])
		assert.Equal(t, order.SHIPPED, results[1].Status)
	})

	t.Run("vietnamese notices", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "2=delivered", "--lang", "vi")
		require.Error(t, res.err)
		assert.Equal(t, "đơn hàng 2: không cập nhật được trạng thái\n", res.stderr)
	})

	t.Run("same order twice", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "2=delivered", "2=cancelled", "--format", "json")
		require.Error(t, res.err)

		// The second change is either ignored while the first is in
		// flight or sent after it; every change that was sent failed.
		sent := len(svc.patches)
		require.Contains(t, []int{1, 2}, sent)
		assert.Equal(t, fmt.Sprintf("%d of 2 status changes failed", sent), res.err.Error())
		if sent == 1 {
			assert.Contains(t, res.stderr, `"cancelled" ignored`)
		}

		var results []StatusResult
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
		require.Len(t, results, sent)
		for _, r := range results {
			assert.Equal(t, order.SHIPPED, r.Status)
			assert.Contains(t, r.Error, "update failed")
		}
	})

	t.Run("malformed assignment", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "1shipped")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), `"1shipped" is not <order-id>=<status>`)
		assert.Empty(t, svc.patches)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc := newFakeBackOffice()
		srv := httptest.NewServer(svc.router())
		defer srv.Close()

		res := run(t, srv, "set-status", "7=shipped")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "order 7: not found")
		assert.Empty(t, svc.patches)
	})
}

func TestStatusResultsKeepEveryChange(t *testing.T) {
	calls := 0
	tr := status.TransportFunc(func(context.Context, user.Credential, order.ID, order.Status) error {
		calls++
		if calls == 1 {
			return errors.New("connection refused")
		}
		return nil
	})
	b := status.NewBoard(tr)
	require.NoError(t, b.Load(&order.Order{ID: 2, Status: order.SHIPPED}))

	first, err := b.Select(context.Background(), user.Credential{}, 2, "delivered")
	require.NoError(t, err)
	require.Error(t, first.Wait())

	second, err := b.Select(context.Background(), user.Credential{}, 2, "cancelled")
	require.NoError(t, err)
	require.NoError(t, second.Wait())

	results := statusResults(b.Snapshots(), []*status.Transition{first, second})
	require.Len(t, results, 2)
	assert.Equal(t, order.DELIVERED, results[0].Requested)
	assert.Contains(t, results[0].Error, "update failed")
	assert.Equal(t, StatusResult{OrderID: 2, Status: order.CANCELLED, Requested: order.CANCELLED}, results[1])
}

func TestFormatTotal(t *testing.T) {
	tests := []struct {
		lang  string
		total string
		want  string
	}{
		{lang: "en", total: "150000", want: "150,000.00"},
		{lang: "en", total: "99000.5", want: "99,000.50"},
		{lang: "en", total: "0.1", want: "0.10"},
		{lang: "en", total: "-12.345", want: "-12.35"},
		{lang: "en", total: "9007199254740993.01", want: "9,007,199,254,740,993.01"},
		{lang: "vi", total: "150000", want: "150.000,00"},
		{lang: "vi", total: "99000.5", want: "99.000,50"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+" "+tt.total, func(t *testing.T) {
			p := message.NewPrinter(status.ParseLanguage(tt.lang))
			assert.Equal(t, tt.want, formatTotal(p, decimal.RequireFromString(tt.total)))
		})
	}
}
