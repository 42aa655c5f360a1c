package recurrence

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"time"
)

// WeekdaySet is a set of weekdays stored as a bitmask, bit 0 = Sunday.
type WeekdaySet uint8

const allWeekdays WeekdaySet = 1<<7 - 1

// NewWeekdaySet builds a set from the given days. Out-of-range days are ignored.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s |= 1 << uint(d)
		}
	}
	return s
}

// Has reports whether d is in the set.
func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Len returns the number of weekdays in the set.
func (s WeekdaySet) Len() int {
	return bits.OnesCount8(uint8(s & allWeekdays))
}

// Empty reports whether no weekday is set.
func (s WeekdaySet) Empty() bool {
	return s&allWeekdays == 0
}

// Days returns the set's weekdays in ascending order.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, s.Len())
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// MarshalJSON encodes the set as an ascending list of day numbers (0..6).
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	days := s.Days()
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a list of day numbers, rejecting values outside 0..6.
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	var set WeekdaySet
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("weekday %d out of range 0..6", d)
		}
		set |= 1 << uint(d)
	}
	*s = set
	return nil
}
