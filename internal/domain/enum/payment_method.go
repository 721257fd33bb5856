package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod represents how a sale was tendered
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodMpesa         PaymentMethod = "mpesa"
	PaymentMethodCard          PaymentMethod = "card"
	PaymentMethodTransfer      PaymentMethod = "transfer"
	PaymentMethodMobile        PaymentMethod = "mobile"
	PaymentMethodPayOnDelivery PaymentMethod = "pay_on_delivery"
)

// PaymentMethods lists every recognised method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodMpesa,
	PaymentMethodCard,
	PaymentMethodTransfer,
	PaymentMethodMobile,
	PaymentMethodPayOnDelivery,
}

// ParsePaymentMethod normalises s and rejects unknown methods.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("unrecognised payment method %q", s)
	}
	return m, nil
}

func (m PaymentMethod) IsValid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// IsCash reports whether the method counts towards the drawer's expected cash.
func (m PaymentMethod) IsCash() bool {
	return m == PaymentMethodCash
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethod", value)
	}
	return nil
}
