package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	errFull := errors.New("full")
	known := map[error]string{errFull: "capacity"}

	assert.Equal(t, "capacity", Reason(errFull, known))
	assert.Equal(t, "capacity", Reason(errors.Join(errors.New("ctx"), errFull), known))
	assert.Equal(t, "other", Reason(errors.New("boom"), known))
}
