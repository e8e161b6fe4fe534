package domain

import "fmt"

// Whitelisted field names for single-field updates.
const (
	FieldCartQty     = "qty"
	FieldOrderStatus = "status"
	FieldUserRole    = "role"
)

// InvalidUpdate returns the ErrInvalidUpdate error for field.
func InvalidUpdate(field string) *Error {
	return newError(ErrInvalidUpdate, fmt.Sprintf("Invalid update. You can only update the %s field.", field))
}

// SingleField checks that fields holds exactly one key and that the key is
// allowed, returning its value. It must run before any write.
func SingleField(fields map[string]any, allowed string) (any, error) {
	if len(fields) != 1 {
		return nil, InvalidUpdate(allowed)
	}
	v, ok := fields[allowed]
	if !ok {
		return nil, InvalidUpdate(allowed)
	}
	return v, nil
}
