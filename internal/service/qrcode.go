package service

import (
	"crypto/rand"
	"encoding/base32"
	"strconv"
	"strings"
	"time"
)

const (
	qrCodePrefix      = "TICKET"
	qrCodeRandomBytes = 10 // 10 bytes = 16 個 base32 字元，80 bits 隨機
)

var qrEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// CodeGenerator 產生票券 QR code
type CodeGenerator func() (string, error)

// NewQRCode 格式: TICKET-<unix millis base36>-<16 個 base32 隨機字元>
func NewQRCode() (string, error) {
	return newQRCodeAt(time.Now())
}

func newQRCodeAt(now time.Time) (string, error) {
	buf := make([]byte, qrCodeRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.Join([]string{
		qrCodePrefix,
		strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)),
		qrEncoding.EncodeToString(buf),
	}, "-"), nil
}
