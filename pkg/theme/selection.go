package theme

import (
	"slices"
	"strings"

	"github.com/go-drift/statekit/pkg/errors"
)

// Separator splits the selected key from the mode flags in a token.
const Separator = "#|#"

// Selection is the persisted axis of a theme switcher: which theme is
// selected and which mode was explicitly chosen.
type Selection struct {
	Key  string
	Mode Mode
}

// SelectionCodec encodes selections as "<key>#|#<flags>" where flags is ""
// (system), "0" (light) or "1" (dark). Decoding rejects keys not in Keys.
type SelectionCodec struct {
	Keys []string
}

// Encode implements persist.Codec.
func (c SelectionCodec) Encode(s Selection) string {
	return s.Key + Separator + s.Mode.flags()
}

// Decode implements persist.Codec.
func (c SelectionCodec) Decode(token string) (Selection, error) {
	key, flags, ok := strings.Cut(token, Separator)
	if !ok {
		return Selection{}, &errors.DecodeError{Token: token, Reason: "missing separator"}
	}
	if !slices.Contains(c.Keys, key) {
		return Selection{}, &errors.DecodeError{Token: token, Reason: "unknown theme key " + key}
	}
	mode, ok := modeFromFlags(flags)
	if !ok {
		return Selection{}, &errors.DecodeError{Token: token, Reason: "unknown mode flags " + flags}
	}
	return Selection{Key: key, Mode: mode}, nil
}
