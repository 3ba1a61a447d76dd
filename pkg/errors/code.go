package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: User module errors
// 12000-12999: Problem module errors
// 13000-13999: Submission & Judge module errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Storage errors (10100-10199)
	StorageError      ErrorCode = 10100
	RecordNotFound    ErrorCode = 10101
	RecordExists      ErrorCode = 10102
	TransactionFailed ErrorCode = 10103

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== User Module Errors (11000-11999) ==========

	UserNotFound       ErrorCode = 11001
	UserNotRegistered  ErrorCode = 11002
	UsernameExists     ErrorCode = 11100
	AlreadyRegistered  ErrorCode = 11101
	InvalidUsername    ErrorCode = 11102
	InvalidEmail       ErrorCode = 11103
	UserUpdateFailed   ErrorCode = 11200
	RatingUpdateFailed ErrorCode = 11201

	// ========== Problem Module Errors (12000-12999) ==========

	ProblemNotFound   ErrorCode = 12000
	ProblemLoadFailed ErrorCode = 12001
	TestCaseInvalid   ErrorCode = 12102

	// ========== Submission & Judge Module Errors (13000-13999) ==========

	SubmissionNotFound     ErrorCode = 13000
	SubmissionCreateFailed ErrorCode = 13001
	CodeTooLarge           ErrorCode = 13002
	LanguageNotSupported   ErrorCode = 13003

	JudgeSystemError  ErrorCode = 13101
	CompilationError  ErrorCode = 13102
	RuntimeError      ErrorCode = 13103
	TimeLimitExceeded ErrorCode = 13104

	CustomTestFailed    ErrorCode = 13200
	CustomInputTooLarge ErrorCode = 13201

	JobNotFound ErrorCode = 13300
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Storage
	StorageError:      "Storage operation failed",
	RecordNotFound:    "Record not found",
	RecordExists:      "Record already exists",
	TransactionFailed: "Storage transaction failed",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Required field is empty",

	// User
	UserNotFound:       "User not found",
	UserNotRegistered:  "User is not registered",
	UsernameExists:     "Username is already taken",
	AlreadyRegistered:  "User is already registered",
	InvalidUsername:    "Invalid username format",
	InvalidEmail:       "Invalid email format",
	UserUpdateFailed:   "Failed to update user",
	RatingUpdateFailed: "Failed to update rating",

	// Problem
	ProblemNotFound:   "Problem not found",
	ProblemLoadFailed: "Failed to load problem data",
	TestCaseInvalid:   "Invalid test case format",

	// Submission & Judge
	SubmissionNotFound:     "Submission not found",
	SubmissionCreateFailed: "Failed to create submission",
	CodeTooLarge:           "Code is too large",
	LanguageNotSupported:   "Programming language not supported",
	JudgeSystemError:       "Judge system error",
	CompilationError:       "Compilation error",
	RuntimeError:           "Runtime error",
	TimeLimitExceeded:      "Time limit exceeded",
	CustomTestFailed:       "Custom test execution failed",
	CustomInputTooLarge:    "Custom input is too large",
	JobNotFound:            "Job not found",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == Unauthorized, c == UserNotRegistered:
		return 401
	case c == Forbidden:
		return 403
	case c == NotFound, c == UserNotFound, c == ProblemNotFound, c == JobNotFound, c == SubmissionNotFound:
		return 404
	case c == TooManyRequests:
		return 429
	case c == ServiceUnavailable:
		return 503
	case c >= 10300 && c < 10400:
		return 400
	case c == InvalidParams, c == LanguageNotSupported, c == CodeTooLarge, c == CustomInputTooLarge:
		return 400
	default:
		return 500
	}
}
