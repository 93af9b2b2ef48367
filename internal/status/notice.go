package status

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Lekhanh23/flowershop-frontend-sub000/internal/models/order"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoticeKind tells what went wrong.
type NoticeKind int

const (
	// InvalidStatus: the selected value is not an order status.
	InvalidStatus NoticeKind = iota + 1
	// UpdateFailed: the order service did not accept the change.
	UpdateFailed
)

func (k NoticeKind) String() string {
	switch k {
	case InvalidStatus:
		return "invalid_status"
	case UpdateFailed:
		return "update_failed"
	}
	return fmt.Sprintf("notice(%d)", int(k))
}

// Catalog keys. They double as the English copy.
const (
	msgInvalidStatus = "order %d: invalid status %q"
	msgUpdateFailed  = "order %d: update failed"
)

func init() {
	for _, m := range []struct {
		tag  language.Tag
		key  string
		text string
	}{
		{language.English, msgInvalidStatus, "order %d: invalid status %q"},
		{language.English, msgUpdateFailed, "order %d: update failed"},
		{language.Vietnamese, msgInvalidStatus, "đơn hàng %d: trạng thái không hợp lệ %q"},
		{language.Vietnamese, msgUpdateFailed, "đơn hàng %d: không cập nhật được trạng thái"},
	} {
		if err := message.SetString(m.tag, m.key, m.text); err != nil {
			panic(err)
		}
	}
}

// Notice is a single message for the operator.
type Notice struct {
	Err     error
	Status  string
	Kind    NoticeKind
	OrderID order.ID
}

// Text renders the notice in the printer's language.
func (n Notice) Text(p *message.Printer) string {
	switch n.Kind {
	case InvalidStatus:
		return p.Sprintf(msgInvalidStatus, int64(n.OrderID), n.Status)
	default:
		return p.Sprintf(msgUpdateFailed, int64(n.OrderID))
	}
}

// Notifier surfaces notices to the operator.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type discard struct{}

func (discard) Notify(context.Context, Notice) {}

// WriterNotifier writes one localized line per notice.
type WriterNotifier struct {
	w  io.Writer
	p  *message.Printer
	mu sync.Mutex
}

// NewWriterNotifier writes notices to w in the language named by lang,
// falling back to English for unknown tags.
func NewWriterNotifier(w io.Writer, lang string) *WriterNotifier {
	return &WriterNotifier{w: w, p: message.NewPrinter(ParseLanguage(lang))}
}

func (wn *WriterNotifier) Notify(_ context.Context, n Notice) {
	wn.mu.Lock()
	defer wn.mu.Unlock()
	fmt.Fprintln(wn.w, n.Text(wn.p))
}

// ParseLanguage parses a BCP 47 tag; unknown or empty input yields English.
func ParseLanguage(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	return tag
}
