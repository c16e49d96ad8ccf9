// pkg/registry/registry.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"text/template"
)

func LoadRegistry(path string) (*TemplateRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg TemplateRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// FindTemplate looks up a template by notification type and recipient type.
func (r *TemplateRegistry) FindTemplate(notificationType, recipientType string) (*Template, error) {
	for i := range r.Templates {
		t := &r.Templates[i]
		if t.NotificationType == notificationType && t.RecipientType == recipientType {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no template for notification type %q and recipient %q", notificationType, recipientType)
}

// Render fills the subject and body templates with the given data.
func (t *Template) Render(data map[string]interface{}) (subject, body string, err error) {
	subject, err = renderString("subject", t.Subject, data)
	if err != nil {
		return "", "", err
	}
	body, err = renderString("body", t.Body, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

// RenderSMS fills the SMS body template. Falls back to the email body when
// no SMS-specific body is defined.
func (t *Template) RenderSMS(data map[string]interface{}) (string, error) {
	body := t.SMSBody
	if body == "" {
		body = t.Body
	}
	return renderString("sms", body, data)
}

func renderString(name, text string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}
