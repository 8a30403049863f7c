// Package markup renders tasks and notifications as HTML fragments.
// Every value that came from a service passes through html/template
// escaping before it reaches the output.
package markup

import (
	"bytes"
	"encoding/json"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/existflow/taskboard/internal/model"
	"github.com/existflow/taskboard/internal/presenter"
)

var funcs = template.FuncMap{
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "unknown"
		}
		return humanize.Time(t)
	},
	"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"stamp": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 15:04")
	},
	"json": func(v any) (string, error) {
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	},
}

var templates = template.Must(template.New("markup").Funcs(funcs).Parse(`
{{- define "tasks" -}}
<ul class="task-list">
{{- range . }}
<li class="task-item status-{{ .Status }}" data-id="{{ .ID }}">
<h3 class="task-title">{{ .Title }}</h3>
{{- with .Description }}
<p class="task-description">{{ . }}</p>
{{- end }}
<div class="task-meta"><span class="task-status">{{ .Status }}</span> <span class="task-created">Created {{ ago .CreatedAt }}</span>
{{- with .DueDate }} <span class="task-due">Due {{ date . }}</span>{{ end }}</div>
</li>
{{- end }}
</ul>
{{- end -}}

{{- define "notifications" -}}
<ul class="notification-list">
{{- range . }}
<li class="notification-item {{ if eq .Status "read" }}read{{ else }}unread{{ end }}" data-id="{{ .ID }}">
<h3 class="notification-title">{{ .Title }}</h3>
<p class="notification-message">{{ .Message }}</p>
<div class="notification-meta"><span class="notification-type">{{ .Type }}</span> <span class="notification-status">{{ .Status }}</span> <span class="notification-created">{{ ago .CreatedAt }}</span></div>
</li>
{{- end }}
</ul>
{{- end -}}

{{- define "placeholder" -}}
<div class="placeholder placeholder-{{ .Kind }}" role="{{ if eq .Kind.String "error" }}alert{{ else }}status{{ end }}">
<h3>{{ .Title }}</h3>
{{- with .Message }}
<p class="placeholder-message">{{ . }}</p>
{{- end }}
{{- with .Hint }}
<p class="placeholder-hint">{{ . }}</p>
{{- end }}
</div>
{{- end -}}

{{- define "detail" -}}
<article class="notification-detail" data-id="{{ .Notification.ID }}">
<h2>{{ .Notification.Title }}</h2>
<p class="notification-message">{{ .Notification.Message }}</p>
<dl>
<dt>Type</dt><dd>{{ .Notification.Type }}</dd>
<dt>Status</dt><dd>{{ .Notification.Status }}</dd>
<dt>Created</dt><dd>{{ stamp .Notification.CreatedAt }}</dd>
{{- with .ReadTime }}
<dt>Read</dt><dd>{{ stamp . }}</dd>
{{- end }}
</dl>
{{- with .Notification.Data }}
<pre class="notification-data">{{ json . }}</pre>
{{- end }}
<div class="actions">
{{- if .CanMarkRead }}<button data-action="mark-read">Mark as read</button>{{ end }}
{{- if .CanDelete }}<button data-action="delete">Delete</button>{{ end }}
</div>
</article>
{{- end -}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TaskRows renders a task list
func TaskRows(tasks []model.Task) (string, error) {
	return render("tasks", tasks)
}

// NotificationRows renders a notification list
func NotificationRows(list []model.Notification) (string, error) {
	return render("notifications", list)
}

// Placeholder renders an empty or error state
func Placeholder(p presenter.Placeholder) (string, error) {
	return render("placeholder", p)
}

type detailData struct {
	presenter.Detail
	ReadTime *time.Time
}

// NotificationDetail renders the detail panel. The read timestamp only
// appears when the service reported one.
func NotificationDetail(d presenter.Detail) (string, error) {
	data := detailData{Detail: d}
	if at, ok := d.ReadAt(); ok {
		data.ReadTime = &at
	}
	return render("detail", data)
}
