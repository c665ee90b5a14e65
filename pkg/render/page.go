package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// ApexChartsURL is the script the preview page loads ApexCharts from.
const ApexChartsURL = "https://cdn.jsdelivr.net/npm/apexcharts"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.Script}}"></script>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, sans-serif; margin: 2rem; color: #263238; }
h1 { font-weight: 500; }
section.chart { max-width: 960px; margin: 0 auto 3rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Charts}}<section class="chart">
{{.}}
</section>
{{end}}{{if .LiveReload}}<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.type === "reload") { location.reload(); }
  };
})();
</script>
{{end}}</body>
</html>
`))

type pageData struct {
	Title      string
	Script     string
	Charts     []template.HTML
	LiveReload bool
}

// Page assembles HTML results into a standalone preview page. The fragments
// are embedded as is, so every result must have Format html.
func Page(title string, results []*Result, liveReload bool) ([]byte, error) {
	data := pageData{Title: title, Script: ApexChartsURL, LiveReload: liveReload}
	for _, res := range results {
		if res.Format != FormatHTML {
			return nil, fmt.Errorf("chart %q: page needs html fragments, got %s", res.ChartID, res.Format)
		}
		data.Charts = append(data.Charts, template.HTML(res.Output))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

func fragment(elementID string, script []byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<div id=%q></div>\n<script>", elementID)
	b.Write(script)
	b.WriteString("</script>")
	return b.Bytes()
}
