package widget

import (
	"html/template"
	"io"
)

var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{- if or .Loading .ActionDisabled}}
<meta http-equiv="refresh" content="1">
{{- end}}
<title>{{if .Loading}}Loading{{else}}{{.Title}}{{end}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:0;padding:16px;background:#f5f5f5}
.card{width:300px;margin:0 auto;padding:16px;border-radius:12px;background:#fff;box-shadow:0 1px 4px rgba(0,0,0,.15)}
.card h1{font-size:18px;margin:0 0 8px}
.card p{font-size:14px;color:#555;margin:0 0 12px}
.card label{display:block;font-size:13px;margin-bottom:4px}
.card input{width:100%;box-sizing:border-box;padding:8px;margin-bottom:12px}
.status,.tx{font-size:13px;padding:8px;border-radius:6px;background:#eef;margin-bottom:12px;word-break:break-all}
.card button{width:100%;padding:10px;border:0;border-radius:8px;background:#7c3aed;color:#fff;font-size:15px}
.card button:disabled{background:#a78bfa}
</style>
</head>
<body>
{{- if .Loading}}
<div class="loading">Loading Frame SDK...</div>
{{- else}}
<div class="card">
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<form method="post" action="{{.ActionPath}}">
<label for="amount">Amount (ETH)</label>
<input id="amount" name="amount" type="number" step="{{.Step}}" min="{{.Min}}" value="{{.Amount}}"{{if .InputDisabled}} disabled{{end}}>
{{- if .ShowStatus}}
<div class="status">{{.Status}}</div>
{{- end}}
{{- if .ShowTxHash}}
<div class="tx">Transaction: {{if .TxURL}}<a href="{{.TxURL}}" target="_blank" rel="noopener">{{.TxHash}}</a>{{else}}{{.TxHash}}{{end}}</div>
{{- end}}
<button type="submit"{{if .ActionDisabled}} disabled{{end}}>{{.ActionLabel}}</button>
</form>
</div>
{{- end}}
</body>
</html>
`))

// Render writes the card as a standalone HTML page.
func Render(w io.Writer, v View) error {
	return cardTemplate.Execute(w, v)
}
