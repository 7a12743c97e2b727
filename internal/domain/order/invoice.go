package order

import (
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderIDPrefix is the public order id prefix
const OrderIDPrefix = "ord_"

const invoiceSuffixLength = 4

// NewInvoiceNumber returns INV-{YYYYMMDD}-{4 random chars} for the given day
func NewInvoiceNumber(at time.Time) string {
	var b strings.Builder
	b.WriteString("INV-")
	b.WriteString(at.Format("20060102"))
	b.WriteByte('-')
	b.WriteString(strings.ToUpper(shared.RandomString(invoiceSuffixLength)))
	return b.String()
}
