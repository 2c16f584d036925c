package revert

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// hexPattern matches "0x" followed by one or more hex characters
	hexPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	// bytesArrayPattern matches "[[...]]" and captures the content between brackets
	bytesArrayPattern = regexp.MustCompile(`(?s)\[\[(.*)\]\]`)
	// customErrorPattern matches "custom error 0x<8-hex-chars>: <hex-data>"
	customErrorPattern = regexp.MustCompile(`custom error 0x([0-9a-fA-F]{8}):?\s*([0-9a-fA-F\s]*)`)
)

const (
	selectorSize = 4
	revertPrefix = "revert:"
)

// extractData returns the raw revert payload (selector and arguments) carried
// by err, looking at the JSON-RPC error data first and then at the known
// textual encodings of node and client libraries.
func extractData(err error) []byte {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if s, ok := dataErr.ErrorData().(string); ok {
			if data := common.FromHex(s); len(data) >= selectorSize {
				return data
			}
		}
	}

	msg := err.Error()

	if m := customErrorPattern.FindStringSubmatch(msg); len(m) == 3 {
		data := common.FromHex("0x" + m[1] + strings.Join(strings.Fields(m[2]), ""))
		if len(data) >= selectorSize {
			return data
		}
	}

	if m := bytesArrayPattern.FindStringSubmatch(msg); len(m) == 2 {
		if data := parseBytes(m[1]); len(data) >= selectorSize {
			return data
		}
	}

	for _, h := range hexPattern.FindAllString(msg, -1) {
		// Addresses and hashes quoted in the message are not revert payloads.
		if n := len(h) - 2; n == 40 || n == 64 || n%2 != 0 || n < 2*selectorSize {
			continue
		}

		return common.FromHex(h)
	}

	return nil
}

// extractReason returns a plain string revert reason, such as
// "execution reverted: revert: Ownable: caller is not the owner".
func extractReason(msg string) string {
	idx := strings.Index(msg, revertPrefix)
	if idx == -1 {
		return ""
	}

	return strings.TrimSpace(msg[idx+len(revertPrefix):])
}

// parseBytes parses a string representation of bytes like "8 195 121 160 ..."
func parseBytes(s string) []byte {
	parts := strings.Fields(s)
	out := make([]byte, 0, len(parts))
	for _, part := range parts {
		if val, err := strconv.ParseUint(part, 10, 8); err == nil {
			out = append(out, byte(val))
		}
	}

	return out
}

// parseArgs splits the textual argument list of a named revert such as
// "CliffNotReached(1700000000, 1700086400)" into typed values.
func parseArgs(s string) []any {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		out = append(out, parseArg(p))
	}

	return out
}

func parseArg(s string) any {
	if common.IsHexAddress(s) {
		return common.HexToAddress(s)
	}
	if strings.HasPrefix(s, "0x") && len(s) == 2+2*common.HashLength {
		return common.HexToHash(s)
	}
	if n, ok := parseBig(strings.TrimSuffix(s, "n")); ok {
		return n
	}

	return s
}
