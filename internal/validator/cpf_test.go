package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCPF(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "bare digits", in: "12345678901", want: "123.456.789-01"},
		{name: "already formatted", in: "123.456.789-01", want: "123.456.789-01"},
		{name: "mixed separators", in: "123 456 789-01", want: "123.456.789-01"},
		{name: "too short", in: "123456789", wantErr: ErrCPFLength},
		{name: "too long", in: "123456789012", wantErr: ErrCPFLength},
		{name: "empty", in: "", wantErr: ErrCPFLength},
		{name: "letters only", in: "abc", wantErr: ErrCPFLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCPF(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
