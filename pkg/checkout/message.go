package checkout

import (
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ahmed8601/kahramana-site/pkg/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	messageTitle   = "*طلب جديد - كهرمانة بغداد* 🧾"
	separator      = "--------------------------"
	currencyLabel  = "د.ب"
	timestampStyle = "02/01/2006 15:04:05"
)

// Format carries what the message and link depend on besides the order.
type Format struct {
	Locale      language.Tag
	Location    *time.Location
	Domain      string
	Destination string
}

// Amount renders d with exactly three fraction digits in the locale's
// convention.
func (f Format) Amount(d decimal.Decimal) string {
	p := message.NewPrinter(numberLocale(f.Locale))
	return p.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(3)))
}

var numberLocales sync.Map // language.Tag -> language.Tag

// numberLocale returns the closest tag with its own number formatting.
// Regional tags such as ar-BH carry no number data and would print with the
// root (Latin) convention, so the parent chain and then the base language are
// tried. A tag whose whole chain prints like the root is returned unchanged.
func numberLocale(tag language.Tag) language.Tag {
	if v, ok := numberLocales.Load(tag); ok {
		return v.(language.Tag)
	}

	sample := number.Decimal(1234.5, number.Scale(1))
	root := message.NewPrinter(language.Und).Sprint(sample)

	candidates := []language.Tag{}
	for t := tag; t != language.Und; t = t.Parent() {
		candidates = append(candidates, t)
	}
	if base, conf := tag.Base(); conf != language.No {
		candidates = append(candidates, language.Make(base.String()))
	}

	resolved := tag
	for _, t := range candidates {
		if message.NewPrinter(t).Sprint(sample) != root {
			resolved = t
			break
		}
	}
	numberLocales.Store(tag, resolved)
	return resolved
}

func (f Format) timestamp(now time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(timestampStyle)
}

// BuildMessage renders the order as the text sent to the restaurant.
func BuildMessage(lines []models.LineItem, total decimal.Decimal, customer models.CustomerInfo, now time.Time, f Format) string {
	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, "• "+l.Name+" ("+l.Weight+") ×"+strconv.Itoa(l.Quantity)+" = "+f.Amount(l.Subtotal())+" "+currencyLabel)
	}

	var b strings.Builder
	b.WriteString(messageTitle + "\n")
	b.WriteString(separator + "\n")
	b.WriteString("📅 *التاريخ:* " + f.timestamp(now) + "\n")
	b.WriteString("👤 *العميل:* " + customer.Name + "\n")
	b.WriteString("📞 *الهاتف:* " + DigitsOnly(customer.Phone) + "\n")
	b.WriteString("📍 *العنوان:* " + customer.Address + "\n")
	b.WriteString("🏧 *الدفع:* " + customer.Payment.Label() + "\n")
	b.WriteString(separator + "\n")
	b.WriteString("🛒 *الطلبات:*\n")
	b.WriteString(strings.Join(items, "\n"))
	b.WriteString("\n\n")
	b.WriteString("💰 *الإجمالي:* " + f.Amount(total) + " " + currencyLabel)
	return b.String()
}

// componentEscapes undoes the query escapes that URI component encoding
// leaves alone.
var componentEscapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// BuildLink returns https://<domain>/<destination>?text=<message> with the
// message URI-component encoded: spaces become %20 and !'()* stay literal.
func BuildLink(f Format, msg string) string {
	text := componentEscapes.Replace(url.QueryEscape(msg))
	return "https://" + f.Domain + "/" + f.Destination + "?text=" + text
}
