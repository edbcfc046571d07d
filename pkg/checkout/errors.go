package checkout

// Kind classifies a checkout failure.
type Kind int

const (
	KindEmptyCart Kind = iota + 1
	KindMissingFields
	KindInvalidPhone
	KindDestinationNotConfigured
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindEmptyCart:
		return "EMPTY_CART"
	case KindMissingFields:
		return "MISSING_FIELDS"
	case KindInvalidPhone:
		return "INVALID_PHONE"
	case KindDestinationNotConfigured:
		return "DESTINATION_NOT_CONFIGURED"
	case KindUnexpected:
		return "UNEXPECTED"
	default:
		return "UNKNOWN"
	}
}

// User-facing messages shown on the checkout form.
const (
	MsgEmptyCart                = "السلة فارغة. أضف صنف واحد على الأقل."
	MsgMissingFields            = "يرجى إدخال (الاسم، الهاتف، العنوان)."
	MsgInvalidPhone             = "الرجاء إدخال رقم هاتف بحريني صحيح (8 أرقام)."
	MsgDestinationNotConfigured = "رقم واتساب غير مُعدّ. أضف WHATSAPP_NUMBER في إعدادات الخادم."
	MsgUnexpected               = "حدث خطأ غير متوقع. حاول مرة أخرى."
)

// Error is a checkout failure carrying the message for the form.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyCart                = &Error{Kind: KindEmptyCart, Message: MsgEmptyCart}
	ErrMissingFields            = &Error{Kind: KindMissingFields, Message: MsgMissingFields}
	ErrInvalidPhone             = &Error{Kind: KindInvalidPhone, Message: MsgInvalidPhone}
	ErrDestinationNotConfigured = &Error{Kind: KindDestinationNotConfigured, Message: MsgDestinationNotConfigured}
	ErrUnexpectedSubmission     = &Error{Kind: KindUnexpected, Message: MsgUnexpected}
)

// Unexpected wraps cause as an unexpected submission failure.
func Unexpected(cause error) *Error {
	return &Error{Kind: KindUnexpected, Message: MsgUnexpected, Err: cause}
}
