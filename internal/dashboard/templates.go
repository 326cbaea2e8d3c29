package dashboard

import "html/template"

var pageTemplates = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><title>kursbot dashboard</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<p style="color:red">{{.Error}}</p>{{end}}
<form method="post" action="/login">
  <input name="user" placeholder="user">
  <input name="pass" type="password" placeholder="password">
  <button type="submit">Sign in</button>
</form>
</body>
</html>`))

func init() {
	template.Must(pageTemplates.New("sellers").Parse(`<!doctype html>
<html>
<head><title>kursbot dashboard</title></head>
<body>
<h1>P2P offers</h1>
<form method="post" action="/logout"><button type="submit">Sign out</button></form>
<table border="1" cellpadding="4">
<tr><th>ID</th><th>Name</th><th>Currency</th><th>Rate</th><th>Limit</th><th>Contact</th><th></th></tr>
{{range .Sellers}}
<tr>
  <form method="post" action="/sellers/{{.ID}}">
  <td>{{.ID}}</td>
  <td><input name="name" value="{{.Name}}"></td>
  <td><input name="currency" value="{{.Currency}}" size="4"></td>
  <td><input name="rate" value="{{printf "%.2f" .Rate}}" size="8"></td>
  <td><input name="limit" value="{{.Limit}}" size="10"></td>
  <td><input name="contact" value="{{.Contact}}"></td>
  <td><button type="submit">Save</button></td>
  </form>
  <td><form method="post" action="/sellers/{{.ID}}/delete"><button type="submit">Delete</button></form></td>
</tr>
{{end}}
</table>
<h2>Add offer</h2>
<form method="post" action="/sellers">
  <input name="name" placeholder="name">
  <input name="currency" placeholder="USD" size="4">
  <input name="rate" placeholder="41.50" size="8">
  <input name="limit" placeholder="100-2000" size="10">
  <input name="contact" placeholder="@contact">
  <button type="submit">Add</button>
</form>
<h2>Live alerts</h2>
<ul id="alerts"></ul>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/alerts");
ws.onmessage = (ev) => {
  const fire = JSON.parse(ev.data);
  const li = document.createElement("li");
  li.textContent = fire.symbol + " " + fire.direction + " " + fire.target + " fired at " + fire.price;
  document.getElementById("alerts").prepend(li);
};
</script>
</body>
</html>`))
}
