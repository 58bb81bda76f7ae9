package domain

// Error is an expected business-rule violation returned by domain
// operations. It is a value type: two Errors are the same failure when
// their codes match, which is what errors.Is checks.
//
// Unexpected conditions (nil arguments and the like) are programmer
// errors and are not modeled here.
type Error struct {
	Code        string
	Description string
}

func NewError(code, description string) Error {
	return Error{Code: code, Description: description}
}

func (e Error) Error() string { return e.Description }

// Is reports whether target is a domain Error carrying the same code.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == e.Code
}

// CodeOf extracts the domain error code from err, or "" when err is not
// a domain Error. Used by the HTTP layer to map failures to statuses.
func CodeOf(err error) string {
	if e, ok := err.(Error); ok {
		return e.Code
	}
	return ""
}

// IsDomain reports whether err is an expected business failure.
func IsDomain(err error) bool {
	_, ok := err.(Error)
	return ok
}
