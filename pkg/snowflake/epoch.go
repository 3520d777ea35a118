package snowflake

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type epochKind uint8

const (
	epochUnix epochKind = iota
	epochDiscord
	epochCustom
)

var (
	unixEpoch    = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	discordEpoch = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Epoch selects the reference instant IDs are measured from.
// The zero value is Unix.
type Epoch struct {
	kind   epochKind
	custom time.Time
}

var (
	// Unix is 1970-01-01T00:00:00Z.
	Unix = Epoch{kind: epochUnix}
	// Discord is 2015-01-01T00:00:00Z.
	Discord = Epoch{kind: epochDiscord}
)

// Custom returns an epoch anchored at t.
func Custom(t time.Time) Epoch {
	return Epoch{kind: epochCustom, custom: t}
}

// Resolve maps an epoch selection to its reference instant.
func Resolve(e Epoch) time.Time {
	switch e.kind {
	case epochDiscord:
		return discordEpoch
	case epochCustom:
		return e.custom
	default:
		return unixEpoch
	}
}

// Time is shorthand for Resolve(e).
func (e Epoch) Time() time.Time {
	return Resolve(e)
}

func (e Epoch) String() string {
	switch e.kind {
	case epochDiscord:
		return "discord"
	case epochCustom:
		return e.custom.UTC().Format(time.RFC3339Nano)
	default:
		return "unix"
	}
}

// ParseEpoch accepts "unix", "discord", an RFC 3339 timestamp or an integer
// count of milliseconds since the Unix epoch, optionally suffixed "ms".
// A bare integer of four digits or fewer reads like a year and is rejected;
// write it with the "ms" suffix to mean milliseconds.
func ParseEpoch(s string) (Epoch, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "unix":
		return Unix, nil
	case "discord":
		return Discord, nil
	}

	digits := strings.TrimSuffix(s, "ms")
	if ms, err := strconv.ParseInt(digits, 10, 64); err == nil {
		if digits == s && len(strings.TrimLeft(s, "+-")) <= 4 {
			return Epoch{}, fmt.Errorf("ambiguous epoch %q: use RFC3339 for a date or add the ms suffix for milliseconds", s)
		}
		return Custom(time.UnixMilli(ms).UTC()), nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Epoch{}, fmt.Errorf("invalid epoch %q: expected unix, discord, RFC3339 or unix milliseconds", s)
	}
	return Custom(t), nil
}
