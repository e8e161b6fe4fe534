package service

import (
	"math"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// applyWhitelistedUpdate accepts fields only when it names exactly allowed,
// converts the value with parse and hands it to write. Rejections happen
// before write is called.
func applyWhitelistedUpdate[V, T any](
	fields map[string]any,
	allowed string,
	parse func(any) (V, error),
	write func(V) (T, error),
) (T, error) {
	var zero T
	raw, err := domain.SingleField(fields, allowed)
	if err != nil {
		return zero, err
	}
	v, err := parse(raw)
	if err != nil {
		return zero, err
	}
	return write(v)
}

func parseQty(v any) (int, error) {
	invalid := domain.Validation("qty must be an integer greater than or equal to 1.")
	var n int
	switch q := v.(type) {
	case float64:
		if q != math.Trunc(q) || q < 1 || q > math.MaxInt32 {
			return 0, invalid
		}
		n = int(q)
	case int:
		n = q
	default:
		return 0, invalid
	}
	if n < 1 {
		return 0, invalid
	}
	return n, nil
}

func parseOrderStatus(v any) (domain.OrderStatus, error) {
	s, _ := v.(string)
	status, ok := domain.ParseOrderStatus(s)
	if !ok {
		return "", domain.Validation("status must be one of: processing, paid, shipped, delivered, cancelled.")
	}
	return status, nil
}

func parseRole(v any) (domain.Role, error) {
	s, _ := v.(string)
	role, ok := domain.ParseRole(s)
	if !ok {
		return "", domain.Validation("role must be one of: user, admin.")
	}
	return role, nil
}
