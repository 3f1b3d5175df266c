package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Protocol
		wantErr bool
	}{
		{name: "exact name", input: "spaceengineers", want: ProtocolSpaceEngineers},
		{name: "mixed case and spaces", input: " SpaceEngineers ", want: ProtocolSpaceEngineers},
		{name: "other game", input: "minecraft", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProtocol(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedProtocol)
				assert.Contains(t, err.Error(), tt.input)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTarget_Addr(t *testing.T) {
	assert.Equal(t, "192.169.93.178:27019", Target{Host: "192.169.93.178", Port: 27019}.Addr())
	assert.Equal(t, "[::1]:27016", Target{Host: "::1", Port: 27016}.Addr())
}

func TestA2SQuerier_RejectsUnknownProtocol(t *testing.T) {
	q := NewA2SQuerier(testA2SOptions())
	target := Target{Protocol: "quake3", Host: "127.0.0.1", Port: 27960}

	_, err := q.Players(t.Context(), target)
	require.ErrorIs(t, err, ErrUnsupportedProtocol)

	_, err = q.Status(t.Context(), target)
	require.ErrorIs(t, err, ErrUnsupportedProtocol)
}
