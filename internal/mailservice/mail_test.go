package mailservice

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendEmail(t *testing.T) {
	testCases := []struct {
		name        string
		parseErr    error
		dialErr     error
		expectedErr error
	}{
		{name: "sent"},
		{name: "template error", parseErr: errors.New("could not parse template"), expectedErr: errors.New("could not parse template")},
		{name: "smtp error", dialErr: errors.New("connection refused"), expectedErr: errors.New("connection refused")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockParser := new(MockTemplate)
			mockDialer := new(MockDialer)

			mailer := Mail{
				dialer: mockDialer,
				parser: mockParser,
				sender: "sender@example.com",
			}

			subject := bytes.NewBufferString("New post from alice: Hello")
			plainBody := bytes.NewBufferString("Hello")
			htmlBody := bytes.NewBufferString("<h2>Hello</h2>")
			mockParser.On("ParseTemplate", "new_post.html", testData).Return(subject, plainBody, htmlBody, tc.parseErr)

			var sent *mail.Message
			mockDialer.On("DialAndSend", mock.AnythingOfType("[]*mail.Message")).
				Run(func(args mock.Arguments) {
					sent = args.Get(0).([]*mail.Message)[0]
				}).
				Return(tc.dialErr).Maybe()

			err := mailer.send("bob@example.com", testData, "new_post.html")
			assert.Equal(t, tc.expectedErr, err)

			if tc.parseErr == nil {
				mockDialer.AssertNumberOfCalls(t, "DialAndSend", 1)
				assert.Equal(t, []string{"bob@example.com"}, sent.GetHeader("To"))
				assert.Equal(t, []string{"New post from alice: Hello"}, sent.GetHeader("Subject"))
			} else {
				mockDialer.AssertNotCalled(t, "DialAndSend", mock.Anything)
			}

			mockParser.AssertExpectations(t)
		})
	}
}
