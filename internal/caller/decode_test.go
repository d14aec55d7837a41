package caller

import (
	"testing"

	"github.com/dipdup-io/starknet-go-api/pkg/data"
	"github.com/stretchr/testify/require"
)

func TestParseByteArray(t *testing.T) {
	tests := []struct {
		name       string
		response   []data.Felt
		want       string
		wantOffset int
	}{
		{
			name: "test 1",
			response: []data.Felt{
				"0x0", "0x537461726b6e65742e6964", "0xb",
			},
			want:       "Starknet.id",
			wantOffset: 3,
		}, {
			name: "test 2",
			response: []data.Felt{
				"0x1", "0x68747470733a2f2f6170692e737461726b6e65742e69642f7572693f69643d", "0x313937393433393730333538", "0xc",
			},
			want:       "https://api.starknet.id/uri?id=197943970358",
			wantOffset: 4,
		}, {
			name: "empty string",
			response: []data.Felt{
				"0x0", "0x0", "0x0",
			},
			want:       "",
			wantOffset: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, offset, err := ParseByteArray(tt.response)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseByteArray_Invalid(t *testing.T) {
	_, _, err := ParseByteArray(nil)
	require.ErrorIs(t, err, ErrInvalidResponse)

	_, _, err = ParseByteArray([]data.Felt{"0x2", "0x41"})
	require.ErrorIs(t, err, ErrInvalidResponse)

	_, _, err = ParseByteArray([]data.Felt{"0x8000000000000000", "0x0", "0x0"})
	require.ErrorIs(t, err, ErrInvalidResponse)

	_, _, err = ParseByteArray([]data.Felt{"0xffffffffffffffff", "0x0", "0x0"})
	require.ErrorIs(t, err, ErrInvalidResponse)
}

func TestDecode(t *testing.T) {
	response := []data.Felt{"0x0", "0x4c6f726473", "0x5"}

	hex, err := Decode(DecodeHex, response)
	require.NoError(t, err)
	require.Equal(t, []string{"0x0", "0x4c6f726473", "0x5"}, hex)

	str, err := Decode(DecodeByteArray, response)
	require.NoError(t, err)
	require.Equal(t, []string{"Lords"}, str)

	_, err = Decode("base58", response)
	require.ErrorIs(t, err, ErrUnknownDecoder)
}

func TestSelector(t *testing.T) {
	require.Equal(t, "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e", Selector("0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e"))
	require.NotEqual(t, Selector("name"), Selector("symbol"))
	require.Regexp(t, "^0x[0-9a-f]+$", Selector("mint_lords"))
}

func TestDecodeUint(t *testing.T) {
	got, err := Decode(DecodeUint, []data.Felt{"0x3e8", "0x0"})
	require.NoError(t, err)
	require.Equal(t, []string{"1000", "0"}, got)
}
