package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const fragmentHTML = `<section id="breakdown-chart" class="chart-card">
  <div class="chart-card__canvas">
    <canvas id="{{.CanvasID}}"></canvas>
  </div>
  <script src="{{.LibraryURL}}"></script>
  <script nonce="{{.Nonce}}">
  (function () {
    const ctx = document.getElementById({{.CanvasID}}).getContext('2d');
    new Chart(ctx, {{.Config}});
  })();
  </script>
</section>
`

var fragmentTmpl = template.Must(template.New("breakdown_chart").Parse(fragmentHTML))

type fragmentData struct {
	CanvasID   string
	LibraryURL string
	Nonce      string
	Config     template.JS
}

// WriteFragment renders the chart fragment: canvas, library script and the
// inline initializer. nonce is placed on the inline script so a strict
// Content-Security-Policy can allow it.
func WriteFragment(w io.Writer, b Breakdown, nonce string) error {
	cfg, err := b.Config().JSON()
	if err != nil {
		return err
	}
	data := fragmentData{
		CanvasID:   CanvasID,
		LibraryURL: LibraryURL,
		Nonce:      nonce,
		Config:     cfg,
	}
	if err := fragmentTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render chart fragment: %w", err)
	}
	return nil
}

// Fragment renders the chart fragment for inclusion in a larger page.
func Fragment(b Breakdown, nonce string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := WriteFragment(&buf, b, nonce); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
