package viz

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// pageTemplate is a self-contained physics-layout graph page built on
// the vis-network renderer.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
<style>
  body { margin: 0; background-color: #222222; }
  #graph { width: 100%; height: 100vh; }
</style>
</head>
<body>
<div id="graph"></div>
<script>
  var nodes = new vis.DataSet({{.Nodes}});
  var edges = new vis.DataSet({{.Edges}});
  var container = document.getElementById("graph");
  var options = {
    nodes: { font: { color: "white" } },
    edges: { arrows: "to", font: { color: "white", strokeWidth: 0 } },
    physics: {
      enabled: true,
      stabilization: { iterations: 200 }
    }
  };
  new vis.Network(container, { nodes: nodes, edges: edges }, options);
</script>
</body>
</html>
`

var page = template.Must(template.New("graph").Parse(pageTemplate))

// RenderHTML writes the interactive rendering artifact for the payload.
func RenderHTML(w io.Writer, title string, p *Payload) error {
	nodes, err := json.Marshal(p.Nodes)
	if err != nil {
		return fmt.Errorf("encoding nodes: %w", err)
	}
	edges, err := json.Marshal(p.Edges)
	if err != nil {
		return fmt.Errorf("encoding edges: %w", err)
	}

	return page.Execute(w, struct {
		Title string
		Nodes template.JS
		Edges template.JS
	}{
		Title: title,
		Nodes: template.JS(nodes),
		Edges: template.JS(edges),
	})
}
