package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flarebyte/buildprep/internal/patch"
	"github.com/flarebyte/buildprep/internal/stager"
	"github.com/flarebyte/buildprep/internal/toolexec"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"plain", errors.New("boom"), ExitCodeFailure},
		{"explicit", ExitError{Code: 4, Msg: "x"}, 4},
		{"non-positive", ExitError{Code: -1, Msg: "signal"}, ExitCodeFailure},
		{"staging", &stager.StagingError{Selector: "lib", Err: errors.New("io")}, 1},
		{"tool code", &patch.ApplyError{Code: 128}, 128},
		{"missing tool", &toolexec.NotFoundError{Program: "git"}, 1},
		{"wrapped", fmt.Errorf("stage-patch: %w", &patch.ApplyError{Code: 3}), 3},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("%s: want %d, got %d", tc.name, tc.want, got)
		}
	}
}
