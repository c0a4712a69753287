package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

func NewTemplate() *Template {
	return &Template{}
}

// lookup parses the named notification template on first use and keeps it for later mails.
func (tp *Template) lookup(name string) (*template.Template, error) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if t, ok := tp.parsed[name]; ok {
		return t, nil
	}

	t, err := template.New(name).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("could not parse template %s: %w", name, err)
	}

	if tp.parsed == nil {
		tp.parsed = make(map[string]*template.Template)
	}
	tp.parsed[name] = t

	return t, nil
}

// ParseTemplate renders the subject, plain text and HTML parts of a
// notification. Every template under templates/ defines the blocks
// "subject", "plainBody" and "htmlBody"; data is the event being reported,
// e.g. a commentservice.CommentCreatedEvent.
func (tp *Template) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	t, err := tp.lookup(name)
	if err != nil {
		return nil, nil, nil, err
	}

	parts := make([]*bytes.Buffer, 0, 3)
	for _, block := range []string{"subject", "plainBody", "htmlBody"} {
		buf := new(bytes.Buffer)
		if err := t.ExecuteTemplate(buf, block, data); err != nil {
			return nil, nil, nil, fmt.Errorf("could not render %s of %s: %w", block, name, err)
		}
		parts = append(parts, buf)
	}

	return parts[0], parts[1], parts[2], nil
}
