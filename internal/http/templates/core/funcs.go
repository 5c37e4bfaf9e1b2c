package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/salonhub/salon-admin/internal/http/uiutil"
	"github.com/salonhub/salon-admin/internal/view"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Now anchors relative times; time.Now when nil.
	Now func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"friendlyTime": timeFormatter(uiutil.FormatFriendlyDateTime),
		"friendlyDate": timeFormatter(uiutil.FormatFriendlyDate),
		"relTime": timeFormatter(func(t time.Time) string {
			return uiutil.FriendlyRelativeTime(t, now())
		}),
		"dateInput":    timeFormatter(func(t time.Time) string { return t.Format(time.DateOnly) }),
		"timeTag":      createTimeTagFunc(),
		"money":        uiutil.FormatMoney,
		"avgMoney":     AvgMoney,
		"percent":      formatPercent,
		"formatNumber": formatNumberTemplate,
		"statusClass":  StatusClass,
		"titleCase":    TitleCase,
		"markdown":     Markdown,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"contains":     strings.Contains,
		"truncateText": TruncateText,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func timeFormatter(format func(time.Time) string) func(any) string {
	return func(ts any) string {
		var t0 time.Time
		switch v := ts.(type) {
		case time.Time:
			t0 = v
		case *time.Time:
			if v != nil {
				t0 = *v
			}
		default:
			return ""
		}
		if t0.IsZero() {
			return ""
		}
		return format(t0)
	}
}

func createTimeTagFunc() func(any) template.HTML {
	return func(ts any) template.HTML {
		var t0 time.Time
		switch v := ts.(type) {
		case time.Time:
			t0 = v
		case *time.Time:
			if v != nil {
				t0 = *v
			}
		default:
			return ""
		}
		if t0.IsZero() {
			return ""
		}
		friendly := uiutil.FormatFriendlyDateTime(t0)
		dt := t0.UTC().Format(time.RFC3339)
		title := t0.Local().Format(time.RFC1123)
		// #nosec G203 - The HTML here is constructed from trusted, escaped values only
		return template.HTML(
			fmt.Sprintf(
				"<time datetime=\"%s\" title=\"%s\">%s</time>",
				dt,
				template.HTMLEscapeString(title),
				template.HTMLEscapeString(friendly),
			),
		)
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + "%"
}

// formatNumberTemplate formats integers with comma separators for thousands.
func formatNumberTemplate(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	case float64:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}
	if n < 0 {
		return "-" + uiutil.GroupThousands(strconv.FormatInt(-n, 10))
	}
	return uiutil.GroupThousands(strconv.FormatInt(n, 10))
}

// AvgMoney renders a defined average as money and an undefined one as N/A.
func AvgMoney(a view.Avg) string {
	if !a.Valid {
		return a.String()
	}
	return uiutil.FormatMoney(a.Value)
}

// StatusClass maps a record status to a badge class.
func StatusClass(status any) string {
	switch strings.ToLower(fmt.Sprint(status)) {
	case "active", "approved", "paid", "completed", "confirmed", "live":
		return "badge-success"
	case "pending", "refunded", "scheduled":
		return "badge-warning"
	case "rejected", "cancelled", "failed", "inactive":
		return "badge-danger"
	default:
		return "badge-light"
	}
}

// TitleCase upper-cases the first letter of s.
func TitleCase(v any) string {
	s := fmt.Sprint(v)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
func TruncateText(s string, maxLen int) string {
	return uiutil.TruncateWithEllipsis(s, maxLen)
}
