package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ahmed8601/kahramana-site/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func sampleLines() []models.LineItem {
	return []models.LineItem{
		{MenuItem: models.MenuItem{ID: 1, Name: "Quzi", Weight: "1.5 kg", Price: decimal.RequireFromString("12.500")}, Quantity: 1},
		{MenuItem: models.MenuItem{ID: 2, Name: "Kebab", Weight: "450 g", Price: decimal.RequireFromString("4.500")}, Quantity: 2},
	}
}

func validCustomer() models.CustomerInfo {
	return models.CustomerInfo{Name: "Ali", Phone: "3612 3456", Address: "Manama, Block 304", Payment: models.PaymentCash}
}

func englishFormat() Format {
	return Format{Locale: language.English, Location: time.UTC, Domain: "wa.me", Destination: "97317131413"}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"12345678", true},
		{"01234567", false},
		{"1234567", false},
		{"123456789", false},
		{"7999 9999", true},
		{"+973-3612-3456", false},
		{"8123 4567", false},
		{"(3) 612-3456", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestDestination(t *testing.T) {
	assert.Equal(t, "97317131413", Destination("17131413"))
	assert.Equal(t, "97317131413", Destination("+973 1713 1413"))
	assert.Equal(t, "", Destination(""))
	assert.Equal(t, "", Destination("n/a"))
}

func TestValidate_Order(t *testing.T) {
	tests := []struct {
		name        string
		lines       []models.LineItem
		customer    models.CustomerInfo
		destination string
		want        error
	}{
		{"empty cart wins over missing fields", nil, models.DefaultCustomer(), "", ErrEmptyCart},
		{"missing name", sampleLines(), models.CustomerInfo{Phone: "12345678", Address: "x"}, "973", ErrMissingFields},
		{"whitespace address", sampleLines(), models.CustomerInfo{Name: "Ali", Phone: "12345678", Address: "   "}, "973", ErrMissingFields},
		{"missing fields wins over bad phone", sampleLines(), models.CustomerInfo{Name: "Ali", Phone: "0"}, "", ErrMissingFields},
		{"invalid phone wins over destination", sampleLines(), models.CustomerInfo{Name: "Ali", Phone: "01234567", Address: "x"}, "", ErrInvalidPhone},
		{"no destination", sampleLines(), validCustomer(), "", ErrDestinationNotConfigured},
		{"ok", sampleLines(), validCustomer(), "97317131413", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.lines, tt.customer, tt.destination)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestError_IsByKind(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", Unexpected(errors.New("boom")))

	assert.ErrorIs(t, wrapped, ErrUnexpectedSubmission)
	assert.NotErrorIs(t, wrapped, ErrEmptyCart)

	var ce *Error
	require.ErrorAs(t, wrapped, &ce)
	assert.Equal(t, MsgUnexpected, ce.Message)
	assert.EqualError(t, errors.Unwrap(ce), "boom")
}

func TestAmount(t *testing.T) {
	f := englishFormat()

	assert.Equal(t, "12.500", f.Amount(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0.000", f.Amount(decimal.Zero))
	assert.Equal(t, "9.000", f.Amount(decimal.NewFromInt(9)))
	assert.Equal(t, "1,234.560", f.Amount(decimal.RequireFromString("1234.56")))
}

func TestAmount_RegionalLocales(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"ar-BH", "١٬٢٣٤٫٥٦٠"},
		{"ar-EG", "١٬٢٣٤٫٥٦٠"},
		{"ar", "١٬٢٣٤٫٥٦٠"},
		{"de", "1.234,560"},
		{"en-US", "1,234.560"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			f := Format{Locale: language.MustParse(tt.locale)}
			assert.Equal(t, tt.want, f.Amount(decimal.RequireFromString("1234.56")))
		})
	}
}

func TestBuildMessage(t *testing.T) {
	lines := sampleLines()
	total := lines[0].Subtotal().Add(lines[1].Subtotal())
	now := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)

	msg := BuildMessage(lines, total, validCustomer(), now, englishFormat())

	assert.True(t, strings.HasPrefix(msg, messageTitle+"\n"))
	assert.Contains(t, msg, "• Quzi (1.5 kg) ×1 = 12.500 د.ب\n")
	assert.Contains(t, msg, "• Kebab (450 g) ×2 = 9.000 د.ب\n")
	assert.True(t, strings.HasSuffix(msg, "💰 *الإجمالي:* 21.500 د.ب"))
	assert.Contains(t, msg, "📞 *الهاتف:* 36123456\n")
	assert.Contains(t, msg, "📍 *العنوان:* Manama, Block 304\n")
	assert.Contains(t, msg, "🏧 *الدفع:* نقداً\n")
	assert.Contains(t, msg, "📅 *التاريخ:* 01/03/2026 18:30:00\n")
}

func TestBuildMessage_TimestampInLocation(t *testing.T) {
	f := englishFormat()
	f.Location = time.FixedZone("AST", 3*60*60)
	now := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)

	msg := BuildMessage(sampleLines(), decimal.Zero, validCustomer(), now, f)

	assert.Contains(t, msg, "02/03/2026 01:00:00")
}

func TestBuildMessage_PaymentLabel(t *testing.T) {
	c := validCustomer()
	c.Payment = models.PaymentDigitalWallet

	msg := BuildMessage(sampleLines(), decimal.Zero, c, time.Now(), englishFormat())

	assert.Contains(t, msg, "بنفت بي")
}

func TestBuildLink(t *testing.T) {
	msg := "a b&c=d\n+e"

	link := BuildLink(englishFormat(), msg)

	assert.True(t, strings.HasPrefix(link, "https://wa.me/97317131413?text="))
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "a%20b%26c%3Dd%0A%2Be")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}

func TestBuildLink_ComponentEncoding(t *testing.T) {
	msg := "*x* (y) ! it's ~ok"

	link := BuildLink(englishFormat(), msg)

	assert.True(t, strings.HasSuffix(link, "?text=*x*%20(y)%20!%20it's%20~ok"))
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}
