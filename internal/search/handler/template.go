package handler

import "github.com/Yateesh1508/IR-ASSIGNMENT/internal/search/engine"

// pageData feeds the search page template.
type pageData struct {
	Query    string
	Limit    int
	Searched bool
	Result   *engine.Result
}

const searchPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Corpus Search</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
input[type=text] { width: 60%; padding: 0.4rem; }
table { border-collapse: collapse; margin-top: 1rem; width: 100%; }
th, td { text-align: left; padding: 0.3rem 0.8rem; border-bottom: 1px solid #ddd; }
td.score { font-variant-numeric: tabular-nums; }
p.empty { color: #666; }
</style>
</head>
<body>
<h1>Corpus Search</h1>
<form method="get" action="/">
<input type="text" name="q" value="{{.Query}}" placeholder="Enter query" autofocus>
<input type="hidden" name="k" value="{{.Limit}}">
<button type="submit">Search</button>
</form>
{{if .Searched}}
{{if .Result.Results}}
<p>{{.Result.TotalHits}} matching document(s) for <strong>{{.Query}}</strong>:</p>
<table>
<tr><th>#</th><th>Document</th><th>Score</th></tr>
{{range $i, $r := .Result.Results}}
<tr><td>{{$i}}</td><td>{{$r.Label}}</td><td class="score">{{printf "%.4f" $r.Score}}</td></tr>
{{end}}
</table>
{{else}}
<p class="empty">No documents matched <strong>{{.Query}}</strong>.</p>
{{end}}
{{end}}
</body>
</html>
`
