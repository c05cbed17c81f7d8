package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Templates are deliberately small inline HTML; the visual identity
// lives in the frontend, these only need to read well in a mail client.

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<html><body style="font-family:sans-serif">
<h2>Welcome to QuickTickets, {{.Name}}!</h2>
<p>Your account is ready. Browse upcoming events and grab your seats before they run out.</p>
</body></html>`))

var purchaseTmpl = template.Must(template.New("purchase").Parse(`
<html><body style="font-family:sans-serif">
<h2>Thanks for your purchase, {{.Name}}!</h2>
<p>You bought <strong>{{.Quantity}}</strong> ticket(s) for <strong>{{.EventName}}</strong>.</p>
<p>The event starts on <strong>{{.EventDate}}</strong>. Your tickets and their QR codes are available in your account.</p>
</body></html>`))

var reminderTmpl = template.Must(template.New("reminder").Parse(`
<html><body style="font-family:sans-serif">
<h2>See you soon, {{.Name}}!</h2>
<p><strong>{{.EventName}}</strong> starts on <strong>{{.EventDate}}</strong>.</p>
<p>You hold {{.Quantity}} ticket(s). Have your QR codes ready at the entrance.</p>
</body></html>`))

type templateData struct {
	Name      string
	EventName string
	EventDate string
	Quantity  int
}

func renderTemplate(t *template.Template, name, eventName string, eventDate time.Time, qty int) (string, error) {
	data := templateData{Name: name, EventName: eventName, Quantity: qty}
	if !eventDate.IsZero() {
		data.EventDate = eventDate.UTC().Format("2006-01-02 15:04 MST")
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
