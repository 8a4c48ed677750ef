package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// demoFiles is a tiny front-end that polls /api/stats once a second.
var demoFiles = map[string]string{
	"index.html": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>softchip demo</title>
<link rel="stylesheet" href="/style.css">
</head>
<body>
<h1>softchip</h1>
<pre id="stats">waiting for /api/stats ...</pre>
<script src="/app.js"></script>
</body>
</html>
`,
	"style.css": `body { font-family: monospace; background: #111; color: #9f9; }
`,
	"app.js": `async function poll() {
  const res = await fetch("/api/stats");
  const s = await res.json();
  document.getElementById("stats").textContent =
    "mode " + s.softchip_mode + "\n" +
    "cpu  " + s.cpu_percent + "%\n" +
    "ram  " + s.ram_used_gb + " / " + s.ram_total_gb + " GB (" + s.ram_percent + "%)";
}
poll();
setInterval(poll, 1000);
`,
}

// writeDemoSite writes demoFiles into a fresh temporary directory and
// returns its path. The caller removes it.
func writeDemoSite() (string, error) {
	dir, err := os.MkdirTemp("", "softchip-demo-*")
	if err != nil {
		return "", fmt.Errorf("failed to create demo root: %w", err)
	}

	for name, content := range demoFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			_ = os.RemoveAll(dir)
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return dir, nil
}
