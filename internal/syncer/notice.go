package syncer

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TranslationNotice is prepended to every downloaded translation file.
const TranslationNotice = `# This file is generated by skysync and will be overwritten at the next download
# Therefore, you should not modify this file
# If you want to modify the translation, please do it at the translation platform
# If you still want to modify this file directly, please upload this file to the translation platform after modification in order to update the translation there

`

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// renderTranslation returns the file content for a downloaded body: the
// notice followed by the body. A UTF-16 body with a byte order mark is
// transcoded to UTF-8 and a UTF-8 BOM is dropped; any other body is written
// byte for byte, invalid UTF-8 included.
func renderTranslation(body []byte) ([]byte, error) {
	text := body
	switch {
	case bytes.HasPrefix(body, bomUTF8):
		text = body[len(bomUTF8):]
	case bytes.HasPrefix(body, bomUTF16LE), bytes.HasPrefix(body, bomUTF16BE):
		decoder := unicode.BOMOverride(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
		decoded, _, err := transform.Bytes(decoder, body)
		if err != nil {
			return nil, fmt.Errorf("decoding UTF-16 translation body: %w", err)
		}
		text = decoded
	}

	var buf bytes.Buffer
	buf.Grow(len(TranslationNotice) + len(text))
	buf.WriteString(TranslationNotice)
	buf.Write(text)
	return buf.Bytes(), nil
}
