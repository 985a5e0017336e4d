// Package validator validates admin commands, event payloads, controller
// settings and module dependencies through struct tags.
//
// Besides the go-playground/validator built-ins it registers:
//
//	slug               lowercase identifier such as "course_enrollment"
//	notification_type  one of the delivery types ("basic", "email")
//	recipient_list     comma separated list of bare addresses, blanks allowed;
//	                   all-digit tokens are refused since they read as user ids
package validator

// Validator validates a struct and returns a field to message error on failure.
type Validator interface {
	Validate(data any) error
}
