package domain

// DailyForecast is one day of the forecast feed. ChanceOfRain is keyed by
// the four slot tokens and may be nil or partially filled; every access goes
// through the slot helpers so absence degrades to NoData instead of failing.
// Remaining provider fields are ignored.
type DailyForecast struct {
	Date         string            `json:"date"`
	Telop        string            `json:"telop"`
	ChanceOfRain map[string]string `json:"chanceOfRain"`
}

// Forecast is one forecast feed response. Days keep the provider's order
// with index 0 as today; only the first MaxTableDays are ever consumed.
type Forecast struct {
	Title string          `json:"title"`
	Days  []DailyForecast `json:"forecasts"`
}

// MaxTableDays caps how many forecast days are projected for display.
const MaxTableDays = 3

// dayLabels are the fixed row labels, index-aligned with the forecast days.
var dayLabels = [MaxTableDays]string{"今日", "明日", "明後日"}

// TableRow is one rendered forecast day: a label and exactly four
// probability columns in slot order.
type TableRow struct {
	Label         string    `json:"label"`
	Probabilities [4]string `json:"probabilities"`
}

// ProjectTable renders up to MaxTableDays of a forecast into fixed-width
// rows. A day without chanceOfRain data still yields a full row of NoData
// placeholders, so the column count is always four.
func ProjectTable(f Forecast) []TableRow {
	n := len(f.Days)
	if n > MaxTableDays {
		n = MaxTableDays
	}
	rows := make([]TableRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, TableRow{
			Label:         dayLabels[i],
			Probabilities: DailyRainProbabilities(f.Days[i].ChanceOfRain),
		})
	}
	return rows
}

// CurrentReading derives the "right now" probability from today's forecast
// using the wall-clock hour. Returns NoData when the forecast has no days.
func CurrentReading(f Forecast) string {
	if len(f.Days) == 0 {
		return NoData
	}
	return CurrentSlotValue(f.Days[0].ChanceOfRain, clock.Now().Hour())
}
