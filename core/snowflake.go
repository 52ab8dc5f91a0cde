package core

import (
	"fmt"
	"strconv"
	"time"
)

// discordEpochMillis is the first millisecond of 2015, the epoch of Discord snowflakes
const discordEpochMillis int64 = 1420070400000

// maxClockSkew bounds how far in the future a snowflake may point before it is rejected
const maxClockSkew = 24 * time.Hour

// SnowflakeTime decodes the creation time embedded in a platform snowflake ID.
// Unparseable IDs and timestamps outside [platform epoch, now+skew] are rejected with
// ErrInvalidTimestamp rather than being coerced.
func SnowflakeTime(id string, now time.Time) (time.Time, error) {
	raw, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: snowflake %q: %v", ErrInvalidTimestamp, id, err)
	}

	millis := int64(raw>>22) + discordEpochMillis
	t := time.UnixMilli(millis).UTC()
	if t.After(now.Add(maxClockSkew)) {
		return time.Time{}, fmt.Errorf("%w: snowflake %q decodes to %s", ErrInvalidTimestamp, id, t)
	}

	return t, nil
}

// FormatSnowflake builds a snowflake carrying the given time. lowBits fills the worker,
// process and increment fields and is masked to 22 bits.
func FormatSnowflake(at time.Time, lowBits uint64) string {
	millis := at.UnixMilli() - discordEpochMillis
	if millis < 0 {
		millis = 0
	}
	return strconv.FormatUint(uint64(millis)<<22|(lowBits&0x3fffff), 10)
}
