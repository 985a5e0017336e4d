package view

import "github.com/shandysiswandi/coursebell/internal/notification/entity"

var fallbacks = map[string]entity.Template{
	"course_enrollment": {
		Subject: `{{.user_name}} enrolled in {{.post_title}}`,
		Body:    `<p>Congratulations! {{.user_name}} enrolled in <strong>{{.post_title}}</strong>.</p>`,
	},
	"course_complete": {
		Subject: `{{.user_name}} completed {{.post_title}}`,
		Body:    `<p>Congratulations! {{.user_name}} completed <strong>{{.post_title}}</strong>.</p>`,
	},
	"lesson_complete": {
		Subject: `{{.user_name}} completed {{.post_title}}`,
		Body:    `<p>{{.user_name}} completed the lesson <strong>{{.post_title}}</strong>.</p>`,
	},
}

var generic = entity.Template{
	Subject: `[{{.site_name}}] New notification`,
	Body:    `<p>You have a new notification from {{.site_name}}.</p>`,
}

func fallback(triggerID string, t entity.Type) entity.Template {
	tpl, ok := fallbacks[triggerID]
	if !ok {
		tpl = generic
	}
	tpl.TriggerID = triggerID
	tpl.Type = t
	return tpl
}
