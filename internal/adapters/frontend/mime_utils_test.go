package frontend

import (
	"strings"
	"testing"

	"net/mail"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)
	return msg
}

func TestExtractTextFromMessage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "Plain message",
			raw:      "Subject: hi\r\n\r\nCall me back",
			expected: "Call me back",
		},
		{
			name: "Base64 body",
			raw: "Content-Type: text/plain; charset=utf-8\r\n" +
				"Content-Transfer-Encoding: base64\r\n\r\n" +
				"WW91IGhhdmUg\r\nd29uIQ==\r\n",
			expected: "You have won!",
		},
		{
			name: "Multipart prefers plain text",
			raw: "Content-Type: multipart/alternative; boundary=XYZ\r\n\r\n" +
				"--XYZ\r\nContent-Type: text/html\r\n\r\n<p>html</p>\r\n" +
				"--XYZ\r\nContent-Type: text/plain\r\n\r\nplain text\r\n" +
				"--XYZ--\r\n",
			expected: "plain text\n",
		},
		{
			name: "Nested multipart with quoted-printable",
			raw: "Content-Type: multipart/mixed; boundary=OUTER\r\n\r\n" +
				"--OUTER\r\nContent-Type: multipart/alternative; boundary=INNER\r\n\r\n" +
				"--INNER\r\nContent-Type: text/plain\r\nContent-Transfer-Encoding: quoted-printable\r\n\r\n" +
				"gift =3D card\r\n" +
				"--INNER--\r\n" +
				"--OUTER\r\nContent-Type: application/pdf\r\n\r\nPDFDATA\r\n" +
				"--OUTER--\r\n",
			expected: "gift = card\n",
		},
		{
			name: "HTML only",
			raw: "Content-Type: multipart/alternative; boundary=XYZ\r\n\r\n" +
				"--XYZ\r\nContent-Type: text/html\r\n\r\n<p>html</p>\r\n" +
				"--XYZ--\r\n",
			expected: "<p>html</p>\n",
		},
		{
			name: "Attachment only",
			raw: "Content-Type: multipart/mixed; boundary=XYZ\r\n\r\n" +
				"--XYZ\r\nContent-Type: image/png\r\n\r\nPNG\r\n" +
				"--XYZ--\r\n",
			expected: noTextPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTextFromMessage(parse(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	assert.Equal(t, "Caf\u00e9 prize", decodeHeader("=?utf-8?q?Caf=C3=A9_prize?="))
	assert.Equal(t, "plain", decodeHeader("plain"))
}

func TestEncodeHeader(t *testing.T) {
	assert.Equal(t, "one line", encodeHeader("one\r\n line"))
	assert.Equal(t, "=?utf-8?q?Caf=C3=A9?=", encodeHeader("Caf\u00e9"))
}
