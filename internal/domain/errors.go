package domain

// Error is a typed API error. The set of values below is closed: every
// operation in the system reports failure as one of them, and clients branch
// on Code. Two Errors are equal when their codes match, so callers can use
// errors.Is against the package-level values without caring about the
// human-readable fields.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports code equality, which is the comparison contract for API errors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrInternalServer = &Error{
		Code:    "internal_server_error",
		Message: "Internal Server Error",
		Details: "We are sorry, something went wrong",
		Hint:    "Try again later",
	}
	ErrInvalidCredentials = &Error{
		Code:    "invalid_credentials",
		Message: "Invalid login credentials",
		Details: "The email or password is incorrect",
		Hint:    "Double-check your email and password and try again",
	}
	ErrBadOAuthCallback = &Error{
		Code:    "bad_oauth_callback",
		Message: "Bad OAuth Callback",
		Details: "The email or password is incorrect",
		Hint:    "Double-check your email and password and try again",
	}
	ErrUserNotFound = &Error{
		Code:    "user_not_found",
		Message: "User not found",
		Details: "No user exists with the provided credentials",
		Hint:    "Check that the user has signed up",
	}
	ErrUserAlreadyExists = &Error{
		Code:    "user_already_exists",
		Message: "User already registered",
		Details: "A user already exists with this email address",
		Hint:    "Use sign-in instead of sign-up",
	}
	ErrMissingPassword = &Error{
		Code:    "missing_password",
		Message: "Password required",
		Details: "A password is required to sign up",
		Hint:    "Ensure a valid password is provided",
	}
	ErrWeakPassword = &Error{
		Code:    "weak_password",
		Message: "Weak Password",
		Details: "The password is too weak",
		Hint:    "Try a stronger password",
	}
	ErrSessionNotFound = &Error{
		Code:    "session_not_found",
		Message: "Session Not Found",
		Details: "Session to which the API request relates has expired.",
		Hint:    "Try logging back in",
	}
	ErrMissingInputs = &Error{
		Code:    "missing_inputs",
		Message: "Missing Inputs",
		Details: "Required inputs are missing",
		Hint:    "Check that all require inputs are passed in to the function",
	}
)

// ByCode resolves a code back to its canonical error value. Unknown codes come
// back as ErrInternalServer so a response from a newer server never surfaces
// an error outside the closed set.
func ByCode(code string) *Error {
	for _, e := range allErrors {
		if e.Code == code {
			return e
		}
	}
	return ErrInternalServer
}

var allErrors = []*Error{
	ErrInternalServer,
	ErrInvalidCredentials,
	ErrBadOAuthCallback,
	ErrUserNotFound,
	ErrUserAlreadyExists,
	ErrMissingPassword,
	ErrWeakPassword,
	ErrSessionNotFound,
	ErrMissingInputs,
}
