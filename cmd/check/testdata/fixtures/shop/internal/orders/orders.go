package orders

import "example.com/shop/internal/billing"

func Place(total int) error {
	return billing.Charge(total)
}
