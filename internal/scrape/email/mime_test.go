package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const multipartMsg = "From: jobs-noreply@linkedin.com\r\n" +
	"To: me@example.com\r\n" +
	"Subject: 30+ new jobs for you\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"BOUNDARY\"\r\n" +
	"\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: text/plain; charset=UTF-8\r\n" +
	"\r\n" +
	"Plain text version\r\n" +
	"--BOUNDARY\r\n" +
	"Content-Type: text/html; charset=UTF-8\r\n" +
	"Content-Transfer-Encoding: quoted-printable\r\n" +
	"\r\n" +
	"<html><body><a href=3D\"https://www.linkedin.com/jobs/view/123\">Senior Engineer, Search</a></body></html>\r\n" +
	"--BOUNDARY--\r\n"

func TestHTMLBody(t *testing.T) {
	body := htmlBody([]byte(multipartMsg))
	assert.Contains(t, body, `href="https://www.linkedin.com/jobs/view/123"`)
	assert.NotContains(t, body, "Plain text version")
}

func TestHTMLBodyPlainOnly(t *testing.T) {
	msg := "From: a@b.c\r\nContent-Type: text/plain\r\n\r\njust text\r\n"
	assert.Empty(t, htmlBody([]byte(msg)))
}

func TestHTMLBodyGarbage(t *testing.T) {
	assert.Empty(t, htmlBody(nil))
	assert.Empty(t, htmlBody([]byte("not an email")))
}
