package render

import (
	"html/template"
	"io"
)

// clientScript applies append/remove messages to the container. It opens the
// socket once the document is ready and reports resizes, which only affect
// drawings spawned afterwards.
const clientScript = `(function () {
  var script = document.currentScript;
  var containerId = script.dataset.container;
  var socketPath = script.dataset.socket;

  function connect() {
    var container = document.getElementById(containerId);
    if (!container) {
      return;
    }
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    var url = proto + "//" + location.host + socketPath +
      "?width=" + window.innerWidth + "&height=" + window.innerHeight;
    var ws = new WebSocket(url);

    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "append") {
        container.insertAdjacentHTML("beforeend", msg.markup);
      } else if (msg.type === "remove") {
        var el = document.getElementById(msg.id);
        if (el && el.parentNode) {
          el.parentNode.removeChild(el);
        }
      }
    };

    window.addEventListener("resize", function () {
      if (ws.readyState === WebSocket.OPEN) {
        ws.send(JSON.stringify({type: "resize", width: window.innerWidth, height: window.innerHeight}));
      }
    });
  }

  document.addEventListener("DOMContentLoaded", connect);
})();`

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.StylesheetPath}}">
</head>
<body>
<div id="{{.ContainerID}}"></div>
<script data-container="{{.ContainerID}}" data-socket="{{.SocketPath}}">
{{.Script}}
</script>
</body>
</html>
`))

// PageData configures the host page.
type PageData struct {
	Title          string
	ContainerID    string
	StylesheetPath string
	SocketPath     string
}

// Page writes the host HTML page.
func Page(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, struct {
		PageData
		Script template.JS
	}{data, template.JS(clientScript)})
}
