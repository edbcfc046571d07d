package models

// Category enum
type Category string

const (
	CategoryMain  Category = "main"
	CategoryGrill Category = "grill"
)

// CategoryAll is the menu filter value that matches every category.
const CategoryAll Category = "all"

// Valid reports whether c is a menu category or the "all" filter.
func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryMain, CategoryGrill:
		return true
	}
	return false
}

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentDigitalWallet PaymentMethod = "BenefitPay"
	PaymentCash          PaymentMethod = "Cash"
)

// Valid reports whether p is one of the accepted payment methods.
func (p PaymentMethod) Valid() bool {
	return p == PaymentDigitalWallet || p == PaymentCash
}

// Label returns the human label printed in the order message.
func (p PaymentMethod) Label() string {
	if p == PaymentDigitalWallet {
		return "بنفت بي"
	}
	return "نقداً"
}

// ToastType enum
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
)
