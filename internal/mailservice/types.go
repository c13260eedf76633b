package mailservice

import (
	"bytes"
	"context"
	"sync"

	"github.com/go-mail/mail/v2"

	"github.com/sushihentaime/blogfeed/internal/common"
)

const (
	newPostTemplate = "new_post.html"
	excerptLength   = 280
)

type MailService struct {
	mb     common.MessageConsumer
	m      Mailer
	logger MailLogger
	// seen holds ids of events already delivered so broker redeliveries are dropped.
	seen   *common.Cache
	ctx    context.Context
	cancel context.CancelFunc
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

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}

// newPostData is what new_post.html renders.
type newPostData struct {
	Author  string
	Title   string
	Excerpt string
}
