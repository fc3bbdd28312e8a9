// Package invoice turns user-submitted invoices into consistent batches of
// stock movements and ledger entries, and reconstructs invoice aggregates
// back out of the tag encoding those movements carry.
//
// Invoices are not stored as first-class records. Each movement written for
// an invoice line embeds a pipe-separated tag in its note field; the
// reconstructor groups movements by the tagged invoice id to recover
// invoice-level totals. Reconcile and Reconstruct are inverses over the
// fields the tag carries.
package invoice

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khataplus/khataplus/internal/models"
)

const tagPrefix = "INV:"

// Tag is the field set embedded in a movement note written by the
// reconciler: INV:<id>|TYPE:<kind>|PARTY:<name>|RATE:<2dp>|ITEM:<name>
// with an optional trailing |NOTE:<free text>.
type Tag struct {
	InvoiceID string
	Kind      models.InvoiceKind
	Party     string
	Rate      decimal.Decimal
	Item      string
	Note      string
}

// Encode renders the tag as a movement note.
func (t Tag) Encode() string {
	segments := []string{
		tagPrefix + t.InvoiceID,
		"TYPE:" + string(t.Kind),
		"PARTY:" + t.Party,
		"RATE:" + t.Rate.StringFixed(2),
		"ITEM:" + t.Item,
	}
	if t.Note != "" {
		segments = append(segments, "NOTE:"+t.Note)
	}
	return strings.Join(segments, "|")
}

// ParseTag parses the tag encoding out of a movement note. It returns
// ok=false when the note does not carry a parseable invoice id; malformed
// segments within a tagged note are skipped, not errors. The TYPE field may
// be absent on legacy tags, in which case Kind is left empty and the caller
// falls back to the movement direction.
func ParseTag(note string) (Tag, bool) {
	if !strings.HasPrefix(note, tagPrefix) {
		return Tag{}, false
	}

	fields := make(map[string]string)
	for _, segment := range strings.Split(note, "|") {
		idx := strings.Index(segment, ":")
		if idx <= 0 {
			continue
		}
		fields[segment[:idx]] = segment[idx+1:]
	}

	id := fields["INV"]
	if id == "" {
		return Tag{}, false
	}

	rate := decimal.Zero
	if raw, ok := fields["RATE"]; ok {
		if parsed, err := decimal.NewFromString(raw); err == nil {
			rate = parsed
		}
	}

	return Tag{
		InvoiceID: id,
		Kind:      models.InvoiceKind(fields["TYPE"]),
		Party:     fields["PARTY"],
		Rate:      rate,
		Item:      fields["ITEM"],
		Note:      fields["NOTE"],
	}, true
}

// NewInvoiceID builds a short invoice id: a kind prefix plus the last eight
// digits of the millisecond timestamp, e.g. "SAL-81290047". Short enough to
// type and collision-unlikely within one owner's data.
func NewInvoiceID(kind models.InvoiceKind, now time.Time) string {
	prefix := "PUR"
	if kind == models.InvoiceSale {
		prefix = "SAL"
	}
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return prefix + "-" + millis
}
