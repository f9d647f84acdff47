package domain

import "fmt"

// NoData is the placeholder rendered when a probability value is absent.
const NoData = "--"

// TimeSlot identifies one of the four fixed six-hour precipitation windows
// published per forecast day.
type TimeSlot int

const (
	Slot00to06 TimeSlot = iota
	Slot06to12
	Slot12to18
	Slot18to24
)

// slotRange binds a slot to its half-open hour range and its feed key.
type slotRange struct {
	slot      TimeSlot
	startHour int
	endHour   int // exclusive
	feedKey   string
}

// slotTable is ordered by start hour. The four ranges must partition [0,24).
var slotTable = [...]slotRange{
	{Slot00to06, 0, 6, "T00_06"},
	{Slot06to12, 6, 12, "T06_12"},
	{Slot12to18, 12, 18, "T12_18"},
	{Slot18to24, 18, 24, "T18_24"},
}

func init() {
	next := 0
	for _, r := range slotTable {
		if r.startHour != next || r.endHour <= r.startHour {
			panic(fmt.Sprintf("slot table does not partition the day: %+v", r))
		}
		next = r.endHour
	}
	if next != 24 {
		panic(fmt.Sprintf("slot table covers %d hours, want 24", next))
	}
}

// FeedKey returns the slot's key in the forecast feed's chanceOfRain object.
func (s TimeSlot) FeedKey() string {
	return slotTable[s].feedKey
}

func (s TimeSlot) String() string {
	return slotTable[s].feedKey
}

// SlotForHour returns the slot whose range contains the given hour.
// The second return is false for hours outside [0,24).
func SlotForHour(hour int) (TimeSlot, bool) {
	for _, r := range slotTable {
		if hour >= r.startHour && hour < r.endHour {
			return r.slot, true
		}
	}
	return Slot18to24, false
}

// CurrentSlotValue returns the precipitation probability for the slot
// containing hour, or NoData when the slot key (or the whole map) is absent.
//
// Hours outside [0,24) indicate a broken clock reading upstream; rather than
// failing the display, the value of the last slot of the day is used. See
// the package documentation for why this branch is kept.
func CurrentSlotValue(chanceOfRain map[string]string, hour int) string {
	slot, _ := SlotForHour(hour)
	if v, ok := chanceOfRain[slot.FeedKey()]; ok {
		return v
	}
	return NoData
}

// DailyRainProbabilities projects a chanceOfRain map onto the four slots in
// fixed order. Missing keys (or a nil map) yield NoData; the result always
// has exactly four entries.
func DailyRainProbabilities(chanceOfRain map[string]string) [4]string {
	var out [4]string
	for i, r := range slotTable {
		if v, ok := chanceOfRain[r.feedKey]; ok {
			out[i] = v
		} else {
			out[i] = NoData
		}
	}
	return out
}
