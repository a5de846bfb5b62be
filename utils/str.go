package utils

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

const (
	UTF8  = "UTF8"
	UTF_8 = "UTF-8"
)

// 编码名是否为UTF-8（空串视为UTF-8）
func IsUtf8Encoding(enc string) bool {
	enc = strings.ToUpper(strings.TrimSpace(enc))
	return enc == "" || enc == UTF8 || enc == UTF_8
}

// GBK 转 UTF-8
func GbkToUtf8(s []byte) (d []byte, e error) {
	reader := transform.NewReader(bytes.NewReader(s), simplifiedchinese.GBK.NewDecoder())
	d, e = io.ReadAll(reader)
	return
}

// UTF-8 转 GBK
func Utf8ToGbk(s []byte) (d []byte, e error) {
	reader := transform.NewReader(bytes.NewReader(s), simplifiedchinese.GBK.NewEncoder())
	d, e = io.ReadAll(reader)
	return
}
