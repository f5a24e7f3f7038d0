package types_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/streakmon/pkg/domain/types"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "config",
			err:  goerr.New("GitHub username is required", goerr.T(types.ErrTagConfig)),
			want: "config",
		},
		{
			name: "activity source with detail tag",
			err: goerr.New("Bad credentials",
				goerr.T(types.ErrTagAuth),
				goerr.T(types.ErrTagActivitySource),
			),
			want: "activity_source",
		},
		{
			name: "notification wrapped",
			err: goerr.Wrap(errors.New("connection refused"), "failed to deliver status mail",
				goerr.T(types.ErrTagNotification),
			),
			want: "notification",
		},
		{
			name: "untagged",
			err:  errors.New("boom"),
			want: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, types.Category(tt.err), tt.want)
		})
	}
}
