package service

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var qrCodePattern = regexp.MustCompile(`^TICKET-[0-9A-Z]+-[A-Z2-7]{16}$`)

func TestNewQRCode_Format(t *testing.T) {
	code, err := NewQRCode()
	require.NoError(t, err)
	assert.Regexp(t, qrCodePattern, code)
}

func TestNewQRCode_TimeComponent(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	code, err := newQRCodeAt(at)
	require.NoError(t, err)

	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "LOYW3V28", parts[1])
}

func TestNewQRCode_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := NewQRCode()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}
