package notification

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FraudNotice is appended to every operations message
const FraudNotice = "[Notice] Please verify the customer's phone and address before processing the order to prevent fraud."

// LineItem is one product row of the message
type LineItem struct {
	Title     string
	Quantity  int
	ColorName string
	Size      string
	UnitPrice decimal.Decimal
}

// OrderMessage is everything the operations message reports about an order
type OrderMessage struct {
	OrderID       string
	InvoiceNo     string
	CustomerName  string
	CustomerEmail string
	Phone         string
	Line1         string
	City          string
	State         string
	Country       string
	PostalCode    string
	Items         []LineItem
	CouponCode    string
	Discount      decimal.Decimal
	Total         decimal.Decimal
}

// Message is a rendered plain-text mail
type Message struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Format renders the deterministic order-received message
func Format(m OrderMessage) Message {
	var b strings.Builder

	b.WriteString("New Order Received!\n\n")
	fmt.Fprintf(&b, "Customer Name: %s\n", m.CustomerName)
	fmt.Fprintf(&b, "Email: %s\n", m.CustomerEmail)
	fmt.Fprintf(&b, "Phone: %s\n\n", orDash(m.Phone))

	b.WriteString("Shipping Address:\n")
	fmt.Fprintf(&b, "%s, %s, %s, %s, %s\n\n", m.Line1, m.City, m.State, m.Country, m.PostalCode)

	b.WriteString("Products:\n")
	for _, item := range m.Items {
		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "- %s | Quantity: %d | Color: %s | Size: %s | Unit Price: %s | Total: %s\n",
			item.Title, item.Quantity, orDash(item.ColorName), orDash(item.Size), money(item.UnitPrice), money(total))
	}
	b.WriteString("\n")

	if m.CouponCode != "" {
		fmt.Fprintf(&b, "Discount Code Used: %s | Value: %s\n", m.CouponCode, money(m.Discount))
	} else {
		b.WriteString("No discount code used.\n")
	}
	fmt.Fprintf(&b, "Order Total: %s\n\n", money(m.Total))
	b.WriteString(FraudNotice)
	b.WriteString("\n")

	return Message{
		Subject: "New Order from " + m.CustomerName,
		Body:    b.String(),
	}
}
