package dashboard

import (
	"html/template"
	"io"
	"net/url"
	"strconv"

	"bikeshare-dashboard/models"
	"bikeshare-dashboard/services"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Bike Sharing Dashboard</title>
<style>
body { margin: 0; font-family: sans-serif; display: flex; }
nav { width: 260px; min-height: 100vh; padding: 16px; background: #f0f2f6; box-sizing: border-box; }
nav a { display: block; padding: 6px 8px; color: #262730; text-decoration: none; border-radius: 4px; }
nav a.active { background: #ff4b4b; color: #fff; }
main { flex: 1; padding: 16px 32px; }
table { border-collapse: collapse; font-size: 13px; }
th, td { border: 1px solid #ddd; padding: 4px 8px; text-align: right; }
.error { padding: 12px; background: #ffe3e3; color: #7d1a1a; border-radius: 4px; }
iframe { width: 100%; height: 560px; border: 0; }
</style>
</head>
<body>
<nav>
  <h3>Navigation</h3>
  {{range .Views}}<a href="{{.URL}}"{{if .Active}} class="active"{{end}}>{{.Name}}</a>
  {{end}}
  {{if .Seasons}}
  <h3>Seasons</h3>
  <form method="get">
    {{range .Seasons}}<label><input type="checkbox" name="season" value="{{.Code}}"{{if .Checked}} checked{{end}}> {{.Name}}</label><br>
    {{end}}
    <button type="submit">Apply</button>
  </form>
  {{end}}
</nav>
<main>
  <h1>Bike Sharing Data Analysis Dashboard 🚲</h1>
  {{if .Fatal}}
  <p class="error">{{.Fatal}}</p>
  {{else}}
  <h2>Data overview</h2>
  <p>{{.Result.Rows}} rows from {{.Result.Source}}, ride count column <code>{{.Result.MetricColumn}}</code>.</p>
  <table>
    <tr>{{range .Result.Preview.Columns}}<th>{{.}}</th>{{end}}</tr>
    {{range .Result.Preview.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
  </table>
  <h2>{{.Title}}</h2>
  {{if .ViewErr}}
  <p class="error">{{.ViewErr}}</p>
  {{else}}
  <iframe src="{{.ChartURL}}"></iframe>
  {{if .PNGURL}}<p><a href="{{.PNGURL}}">Download PNG</a></p>{{end}}
  {{end}}
  {{end}}
</main>
</body>
</html>
`))

type navItem struct {
	URL    string
	Name   string
	Active bool
}

type seasonOption struct {
	Code    int
	Name    string
	Checked bool
}

type pageData struct {
	Title    string
	Views    []navItem
	Seasons  []seasonOption
	Result   *services.Result
	ViewErr  string
	Fatal    string
	ChartURL string
	PNGURL   string
}

func newPageData(view models.View, query url.Values, res *services.Result, snapshots bool) pageData {
	d := pageData{Title: Title(view)}
	for _, v := range models.Views {
		d.Views = append(d.Views, navItem{URL: withQuery("/views/"+string(v), query), Name: v.DisplayName(), Active: v == view})
	}
	if res == nil {
		return d
	}

	d.Result = res
	for _, s := range res.SeasonOptions {
		checked := false
		for _, sel := range res.Selected {
			checked = checked || sel == s
		}
		d.Seasons = append(d.Seasons, seasonOption{Code: int(s), Name: s.String() + " (" + strconv.Itoa(int(s)) + ")", Checked: checked})
	}
	if res.ViewErr != nil {
		d.ViewErr = res.ViewErr.Error()
		return d
	}
	d.ChartURL = withQuery("/views/"+string(view)+"/chart", query)
	if snapshots {
		d.PNGURL = withQuery("/views/"+string(view)+"/chart.png", query)
	}
	return d
}

func renderPage(w io.Writer, d pageData) error {
	return pageTmpl.Execute(w, d)
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
