package caller

import (
	"math/big"
	"strings"

	"github.com/dipdup-io/starknet-go-api/pkg/data"
	"github.com/pkg/errors"
)

// errors
var (
	ErrInvalidResponse = errors.New("invalid response")
	ErrUnknownDecoder  = errors.New("unknown decoder")
)

// decoders
const (
	DecodeHex       = "hex"
	DecodeAscii     = "ascii"
	DecodeUint      = "uint"
	DecodeByteArray = "bytearray"
)

// Decode - converts raw call response to human-readable values
func Decode(decoder string, response []data.Felt) ([]string, error) {
	switch decoder {
	case DecodeHex, "":
		result := make([]string, len(response))
		for i := range response {
			result[i] = string(response[i])
		}
		return result, nil
	case DecodeAscii:
		result := make([]string, len(response))
		for i := range response {
			result[i] = response[i].ToAsciiString()
		}
		return result, nil
	case DecodeUint:
		result := make([]string, len(response))
		for i := range response {
			result[i] = new(big.Int).SetBytes(response[i].Bytes()).String()
		}
		return result, nil
	case DecodeByteArray:
		result := make([]string, 0)
		for offset := 0; offset < len(response); {
			str, size, err := ParseByteArray(response[offset:])
			if err != nil {
				return nil, err
			}
			result = append(result, str)
			offset += size
		}
		return result, nil
	default:
		return nil, errors.Wrap(ErrUnknownDecoder, decoder)
	}
}

// ParseByteArray - decodes cairo ByteArray: data length, 31-byte words, pending word and its length.
// Returns decoded string and count of consumed felts.
func ParseByteArray(response []data.Felt) (string, int, error) {
	if len(response) == 0 {
		return "", 0, errors.Wrap(ErrInvalidResponse, "empty byte array")
	}
	count, err := response[0].Uint64()
	if err != nil {
		return "", 0, errors.Wrap(ErrInvalidResponse, err.Error())
	}
	if count >= uint64(len(response)) {
		return "", 0, errors.Wrapf(ErrInvalidResponse, "byte array is too short: %d words of %d felts", count, len(response))
	}
	size := int(count) + 3
	if len(response) < size {
		return "", 0, errors.Wrapf(ErrInvalidResponse, "byte array is too short: %d < %d", len(response), size)
	}

	var sb strings.Builder
	for i := 1; i <= int(count); i++ {
		sb.WriteString(response[i].ToAsciiString())
	}

	pendingLen, err := response[count+2].Uint64()
	if err != nil {
		return "", 0, errors.Wrap(ErrInvalidResponse, err.Error())
	}
	if pendingLen > 0 {
		sb.WriteString(response[count+1].ToAsciiString())
	}

	return sb.String(), size, nil
}
