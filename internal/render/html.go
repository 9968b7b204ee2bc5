package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/config"
	"github.com/Miku-laurea/Miku-laurea-Commuter-Traffic-APP/internal/models"
)

// PageData is everything the station page shows
type PageData struct {
	Labels   config.Labels
	Options  []models.StationOption
	Query    string
	Selected string
	Status   string
	Tables   []Table
}

var templates = template.Must(template.New("render").Funcs(template.FuncMap{
	"colspan": func() int { return ColumnCount },
}).Parse(pageTemplate))

// Page writes the full HTML page
func Page(w io.Writer, data PageData) error {
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// Tables writes only the two schedule sections
func Tables(w io.Writer, tables []Table) error {
	if err := templates.ExecuteTemplate(w, "tables", tables); err != nil {
		return fmt.Errorf("failed to render tables: %w", err)
	}
	return nil
}

var pageTemplate = strings.TrimSpace(`
{{define "page"}}<!DOCTYPE html>
<html lang="fi">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Labels.Title}}</title>
<style>
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;margin:0;padding:16px;background:#f5f7fa;color:#1d2733}
form{display:flex;flex-wrap:wrap;gap:8px;margin-bottom:12px}
input,select,button{font-size:15px;padding:6px 8px}
#status{margin:8px 0;font-weight:500}
.board-section h2{font-size:18px;margin:20px 0 8px}
table.timetable{border-collapse:collapse;width:100%;background:#fff}
.timetable th,.timetable td{border-bottom:1px solid #dde3ea;padding:6px 8px;text-align:left}
.timetable tr.cancelled td{text-decoration:line-through;opacity:.6}
</style>
</head>
<body>
<h1>{{.Labels.Title}}</h1>
<form method="get" action="/">
<input id="stationSearch" type="search" name="q" value="{{.Query}}" placeholder="{{.Labels.SearchPlaceholder}}" autocomplete="off">
<select id="stationSelect" name="station">
<option value=""></option>
{{- range .Options}}
<option value="{{.Code}}"{{if eq .Code $.Selected}} selected{{end}}{{if .Hidden}} hidden{{end}}>{{.Label}}</option>
{{- end}}
</select>
<input type="hidden" name="fetch" value="1">
<button id="fetchTrains" type="submit">{{.Labels.FetchButton}}</button>
</form>
<div id="status">{{.Status}}</div>
<div id="trainsList">{{template "tables" .Tables}}</div>
<script>
(function () {
  var search = document.getElementById("stationSearch");
  var options = document.querySelectorAll("#stationSelect option");
  search.addEventListener("input", function () {
    var txt = search.value.toLowerCase();
    options.forEach(function (opt) {
      if (!opt.value) { return; }
      opt.hidden = opt.textContent.toLowerCase().indexOf(txt) === -1;
    });
  });
})();
</script>
</body>
</html>
{{end}}

{{define "tables"}}
{{- range .}}
<section class="board-section {{.Mode}}">
<h2>{{.Title}}</h2>
<table class="timetable">
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr{{if .Cancelled}} class="cancelled"{{end}}><td>{{.Train}}</td><td>{{.Counterpart}}</td><td>{{.Scheduled}}</td><td>{{.Actual}}</td><td>{{.Diff}}</td></tr>
{{- else}}
<tr class="empty"><td colspan="{{colspan}}">{{.Empty}}</td></tr>
{{- end}}
</tbody>
</table>
</section>
{{- end}}
{{end}}
`)
