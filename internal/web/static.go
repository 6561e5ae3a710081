package web

import "net/http"

func serveCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write([]byte(`body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:0;background:#f6f7f9;color:#1b1d22}
a{color:#2563eb;text-decoration:none} a:hover{text-decoration:underline}
header{padding:12px 20px;border-bottom:1px solid #e3e5e8;background:#fff}
header nav a{margin-right:14px}
.container{max-width:1100px;margin:0 auto;padding:20px}
table{width:100%;border-collapse:collapse;border:1px solid #e3e5e8;background:#fff}
th,td{padding:10px;border-bottom:1px solid #e3e5e8} th{text-align:left;background:#eef0f3}
.btn{display:inline-block;padding:8px 12px;border:1px solid #cbd0d6;background:#fff;color:#1b1d22;border-radius:6px;cursor:pointer}
.btn-primary{background:#2563eb;border-color:#2563eb;color:#fff} .btn-danger{background:#b91c1c;border-color:#b91c1c;color:#fff}
input,textarea,select{width:100%;padding:8px;background:#fff;color:#1b1d22;border:1px solid #cbd0d6;border-radius:6px}
.grid{display:grid;gap:16px} .cols-2{grid-template-columns:1fr 1fr} .cols-4{grid-template-columns:repeat(4,1fr)}
.card{border:1px solid #e3e5e8;border-radius:10px;padding:16px;background:#fff}
h1,h2,h3{margin:12px 0}
.small{opacity:.7} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}
.error{color:#b91c1c;margin:8px 0} .notice{color:#047857;margin:8px 0}
form.inline{display:inline}`))
}
