package render

import (
	"html/template"
	"io"

	"FolioPull/internal/domain/models"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"class": func(s Sign) string {
		switch s {
		case Positive:
			return "positive"
		case Negative:
			return "negative"
		}
		return ""
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Portfolio Tracker</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background-color: #f0f0f0; }
        .container { max-width: 1200px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 5px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
        h1 { color: #333; text-align: center; }
        .controls { margin: 20px 0; text-align: center; }
        button { background-color: #4CAF50; color: white; padding: 10px 20px; border: none; border-radius: 4px; cursor: pointer; margin: 0 10px; }
        button:hover { background-color: #45a049; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background-color: #4CAF50; color: white; }
        tr:hover { background-color: #f5f5f5; }
        .positive { color: green; }
        .negative { color: red; }
        .note { color: #666; }
        .last-updated { text-align: right; color: #666; margin-top: 20px; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Portfolio Tracker</h1>
        <div class="controls">
            <button onclick="window.location.reload()">Refresh Data</button>
            <button onclick="window.location.href='/download'">Download CSV</button>
        </div>
{{- if .Empty }}
        <p class="note">No portfolio data available yet.</p>
{{- else }}
        <table>
            <tr>{{ range .Columns }}<th>{{ . }}</th>{{ end }}</tr>
{{- range .Rows }}
            <tr>{{ range . }}<td{{ with class .Sign }} class="{{ . }}"{{ end }}>{{ .Text }}</td>{{ end }}</tr>
{{- end }}
        </table>
        <table>
            <tr><th colspan="3">Portfolio Summary</th></tr>
{{- range .Summary }}
            <tr><td>{{ .Label }}</td><td{{ with class .Value.Sign }} class="{{ . }}"{{ end }}>{{ .Value.Text }}</td><td{{ with .Percent }}{{ with class .Sign }} class="{{ . }}"{{ end }}{{ end }}>{{ with .Percent }}({{ .Text }}){{ end }}</td></tr>
{{- end }}
        </table>
{{- end }}
{{- range .Omissions }}
        <p class="note">Skipped {{ .Ticker }}: {{ .Reason }}</p>
{{- end }}
        <div class="last-updated">
            Last Updated: {{ .Updated }}
        </div>
    </div>
    <script>
        // Auto-refresh every 30 seconds
        setTimeout(function() {
            window.location.reload();
        }, 30000);
    </script>
</body>
</html>
`))

type pageData struct {
	Report
	Columns []string
}

// WriteHTML renders the portfolio page for c. A nil cycle renders the page
// with a "no data" note.
func WriteHTML(w io.Writer, c *models.Cycle) error {
	return pageTemplate.Execute(w, pageData{Report: BuildReport(c), Columns: Columns})
}
