package frontend

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// maxMultipartDepth bounds recursion into nested multipart bodies
const maxMultipartDepth = 5

// noTextPlaceholder is analyzed when a message carries no readable text part
const noTextPlaceholder = "[No text content found in message]"

var headerDecoder = &mime.WordDecoder{}

// extractTextFromMessage returns the readable text of msg.
// text/plain parts are preferred; text/html is used only when no plain part exists.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	plain, html, err := extractParts(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body, 0)
	if err != nil {
		return "", err
	}

	switch {
	case strings.TrimSpace(plain) != "":
		return plain, nil
	case strings.TrimSpace(html) != "":
		return html, nil
	default:
		return noTextPlaceholder, nil
	}
}

func extractParts(contentType, transferEncoding string, body io.Reader, depth int) (plain, html string, err error) {
	mediaType, params, parseErr := mime.ParseMediaType(contentType)
	if parseErr != nil || contentType == "" {
		mediaType = "text/plain"
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		data, err := io.ReadAll(decodeTransfer(body, transferEncoding))
		if err != nil {
			return "", "", err
		}
		switch mediaType {
		case "text/html":
			return "", string(data), nil
		case "text/plain":
			return string(data), "", nil
		default:
			return "", "", nil
		}
	}

	boundary, ok := params["boundary"]
	if !ok || depth >= maxMultipartDepth {
		return "", "", nil
	}

	var plainBuf, htmlBuf bytes.Buffer
	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A truncated multipart body keeps whatever text was already read
			break
		}

		// multipart.Reader strips the header of quoted-printable parts after decoding them
		partPlain, partHTML, err := extractParts(
			part.Header.Get("Content-Type"),
			part.Header.Get("Content-Transfer-Encoding"),
			part,
			depth+1,
		)
		if err != nil {
			continue
		}
		appendText(&plainBuf, partPlain)
		appendText(&htmlBuf, partHTML)
	}

	return plainBuf.String(), htmlBuf.String(), nil
}

func decodeTransfer(body io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		return quotedprintable.NewReader(body)
	default:
		return body
	}
}

func appendText(buf *bytes.Buffer, text string) {
	if text == "" {
		return
	}
	buf.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		buf.WriteString("\n")
	}
}

// decodeHeader decodes RFC 2047 encoded words, returning the input unchanged on failure
func decodeHeader(value string) string {
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// encodeHeader produces a single-line header value, Q-encoding non-ASCII text
func encodeHeader(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	for _, r := range value {
		if r > 127 {
			return mime.QEncoding.Encode("utf-8", value)
		}
	}
	return value
}
