package mailservice

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/bloglist/internal/common"
)

type MailService struct {
	mb        common.MessageConsumer
	m         Mailer
	moderator string
	logger    MailLogger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	maxRetries int
	baseDelay  time.Duration
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

// Template renders the embedded notification templates. The zero value is ready to use.
type Template struct {
	mu     sync.Mutex
	parsed map[string]*template.Template
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}
