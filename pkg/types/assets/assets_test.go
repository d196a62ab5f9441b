package assets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"bitcoin", true},
		{"usd-coin", true},
		{"wrapped_bitcoin", true},
		{"", false},
		{".", false},
		{"..", false},
		{"bit/coin", false},
		{"bitcoin?x=1", false},
		{"bit coin", false},
		{"bitcoin#top", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")

	var transport error = &TransportError{URL: "http://x", Err: cause}
	assert.ErrorIs(t, transport, cause)
	assert.Contains(t, transport.Error(), "connection refused")

	var parse error = &ParseError{URL: "http://x", Err: cause}
	assert.ErrorIs(t, parse, cause)

	var network error = &NetworkError{URL: "http://x", StatusCode: 404}
	assert.Contains(t, network.Error(), "404")
}
