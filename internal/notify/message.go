package notify

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplitter/internal/currency"
	"github.com/mmynk/billsplitter/internal/scan"
)

// ScanMessage renders the HTML-mode Telegram message for a scan: one line
// per item, the summed line totals and the time of the scan.
func ScanMessage(items []scan.Item, code string, at time.Time) string {
	total := decimal.Zero
	lines := make([]string, 0, len(items))
	for _, it := range items {
		total = total.Add(it.Price)

		qty := ""
		if it.Quantity > 1 {
			qty = fmt.Sprintf("%dx ", it.Quantity)
		}
		lines = append(lines, fmt.Sprintf("• %s%s - %s", qty, escape(it.Name), escape(currency.Format(it.Price, code))))
	}

	var b strings.Builder
	b.WriteString("🧾 <b>Bill Scanned</b>\n\n")
	b.WriteString("<b>Items:</b>\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "<b>Total:</b> %s\n", escape(currency.Format(total, code)))
	fmt.Fprintf(&b, "<b>Time:</b> %s", at.Format("Jan 2, 2006, 3:04 PM"))
	return b.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}
