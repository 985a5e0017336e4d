package entity

import (
	"strings"
)

// Type is a delivery channel a controller can support.
type Type string

const (
	TypeBasic Type = "basic"
	TypeEmail Type = "email"
)

// Types lists every known delivery type in display order.
func Types() []Type {
	return []Type{TypeBasic, TypeEmail}
}

func TypeFromString(raw string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeBasic, TypeEmail:
		return t, true
	default:
		return "", false
	}
}

func (t Type) String() string {
	return string(t)
}

// Title is the display name used on settings screens.
func (t Type) Title() string {
	switch t {
	case TypeBasic:
		return "Basic"
	case TypeEmail:
		return "Email"
	default:
		return string(t)
	}
}

type Status string

const (
	StatusNew    Status = "new"
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
	StatusRead   Status = "read"
)

func (s Status) String() string {
	return string(s)
}

type ContentKind string

const (
	ContentKindCourse ContentKind = "course"
	ContentKindLesson ContentKind = "lesson"
)

func (k ContentKind) String() string {
	return string(k)
}

// Role ids understood by the recipient resolver.
const (
	RoleAuthor       = "author"
	RoleStudent      = "student"
	RoleLessonAuthor = "lesson_author"
	RoleCourseAuthor = "course_author"
	RoleCustom       = "custom"
)

const (
	Enabled  = "yes"
	Disabled = "no"
)
