package entity

// RoleOption is one subscriber choice shown on a trigger's settings screen.
type RoleOption struct {
	ID          string
	Title       string
	Description string
	// Enabled is "yes" or "no".
	Enabled string
}

var roleOptions = map[string]RoleOption{
	RoleAuthor:       {Title: "Author"},
	RoleStudent:      {Title: "Student"},
	RoleLessonAuthor: {Title: "Lesson Author"},
	RoleCourseAuthor: {Title: "Course Author"},
	RoleCustom: {
		Title:       "Additional Recipients",
		Description: "Enter additional email addresses which will receive this notification. Separate multiple addresses with commas.",
	},
}

// NewRoleOption returns the prebuilt option for id. Unknown ids report false.
func NewRoleOption(id, enabled string) (RoleOption, bool) {
	opt, ok := roleOptions[id]
	if !ok {
		return RoleOption{}, false
	}

	opt.ID = id
	opt.Enabled = enabled
	return opt, true
}

// MustRoleOption is NewRoleOption for ids known at compile time.
func MustRoleOption(id, enabled string) RoleOption {
	opt, ok := NewRoleOption(id, enabled)
	if !ok {
		panic("entity: unknown role option " + id)
	}
	return opt
}
