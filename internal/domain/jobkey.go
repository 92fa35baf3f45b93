package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadJobKey marks a job key token that cannot be decoded. Keys live in
// the durable store across restarts, so a malformed one means data
// corruption; callers log it and skip the entry.
var ErrBadJobKey = errors.New("malformed job key")

const (
	keyPrefix       = "cleaning"
	dayBeforeSuffix = "day_before"
)

// JobKey identifies one recurring reminder job: a chat, a campus, one of
// the four cycle slots, and the day-of/day-before variant. Encode/ParseJobKey
// round-trip, and no two distinct keys share a token.
type JobKey struct {
	ChatID    int64
	Campus    int
	Slot      int
	DayBefore bool
}

// Encode serializes the key to its durable string token, e.g.
// "cleaning:123456:2:0" or "cleaning:123456:2:0:day_before". The format is
// read back from the store across restarts and must stay stable.
func (k JobKey) Encode() string {
	token := keyPrefix + ":" +
		strconv.FormatInt(k.ChatID, 10) + ":" +
		strconv.Itoa(k.Campus) + ":" +
		strconv.Itoa(k.Slot)
	if k.DayBefore {
		token += ":" + dayBeforeSuffix
	}
	return token
}

// ParseJobKey decodes a token produced by Encode. It rejects anything
// outside the valid domain (campus 1..4, slot 0..3) so a decoded key is
// always safe to use.
func ParseJobKey(token string) (JobKey, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 4 && len(parts) != 5 {
		return JobKey{}, fmt.Errorf("%w: %q", ErrBadJobKey, token)
	}
	if parts[0] != keyPrefix {
		return JobKey{}, fmt.Errorf("%w: bad prefix in %q", ErrBadJobKey, token)
	}

	var k JobKey
	if len(parts) == 5 {
		if parts[4] != dayBeforeSuffix {
			return JobKey{}, fmt.Errorf("%w: bad suffix in %q", ErrBadJobKey, token)
		}
		k.DayBefore = true
	}

	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return JobKey{}, fmt.Errorf("%w: chat id in %q", ErrBadJobKey, token)
	}
	campus, err := strconv.Atoi(parts[2])
	if err != nil || !ValidCampus(campus) {
		return JobKey{}, fmt.Errorf("%w: campus in %q", ErrBadJobKey, token)
	}
	slot, err := strconv.Atoi(parts[3])
	if err != nil || slot < 0 || slot >= CycleSlots {
		return JobKey{}, fmt.Errorf("%w: slot in %q", ErrBadJobKey, token)
	}

	k.ChatID = chatID
	k.Campus = campus
	k.Slot = slot
	return k, nil
}
