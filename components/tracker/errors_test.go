package tracker

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unreachable", fmt.Errorf("get /fish: %w", ErrUnreachable), "Could not reach the fish API at http://127.0.0.1:8000. Is it running?"},
		{"remote detail", &RemoteError{Status: 403, Detail: "Invalid password"}, "Invalid password"},
		{"remote status", &RemoteError{Status: 500}, "The fish API responded with status 500."},
		{"validation", &ValidationError{Field: "name", Message: "is required"}, "name: is required"},
		{"not found", fmt.Errorf("fish 9: %w", ErrFishNotFound), "That fish could not be found."},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayMessage(tc.err, "http://127.0.0.1:8000"))
		})
	}
}

func TestRemoteErrorMessage(t *testing.T) {
	assert.Equal(t, "fish api returned status 502", (&RemoteError{Status: 502}).Error())
	assert.Equal(t, "fish api returned status 400: bad csv", (&RemoteError{Status: 400, Detail: "bad csv"}).Error())
}
