package snapshot

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Encoding names the charset a payload was decoded with
type Encoding string

const (
	EncodingUTF8 Encoding = "utf-8"
	EncodingGBK  Encoding = "gbk"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode reads raw as UTF-8 with an optional BOM, falling back once to GBK.
// A GBK result that still holds replacement characters counts as a failure.
func Decode(raw []byte) (string, Encoding, error) {
	body := bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(body) {
		return string(body), EncodingUTF8, nil
	}

	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: gbk fallback: %v", ErrDecode, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", "", fmt.Errorf("%w: payload is neither utf-8 nor gbk", ErrDecode)
	}

	return string(out), EncodingGBK, nil
}
