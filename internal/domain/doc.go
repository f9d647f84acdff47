// Package domain models the location directory and precipitation forecast
// data behind the rain lookup service.
//
// # Location feed
//
// The directory comes from an RSS-style XML feed of prefecture entries, each
// holding city elements with id/title attributes. The id is an opaque
// provider-assigned location code and the only key the forecast feed
// understands. The feed declares its own character encoding in the XML
// prolog (historically Shift_JIS on some mirrors), so parsing detects the
// encoding instead of assuming UTF-8. See [ParseDirectory] for the rules on
// incomplete entries.
//
// # Forecast feed
//
// Forecasts arrive as JSON with a `forecasts` array, index 0 being today.
// Each day optionally carries a `chanceOfRain` object keyed by four fixed
// six-hour slot tokens:
//
//	T00_06  [00:00, 06:00)
//	T06_12  [06:00, 12:00)
//	T12_18  [12:00, 18:00)
//	T18_24  [18:00, 24:00)
//
// Values are display-ready probability strings such as "10%". A missing key
// or a missing chanceOfRain object is a normal "no data" state and renders
// as the "--" placeholder, never as an error.
//
// # Out-of-range hours
//
// [CurrentSlotValue] accepts any hour but only [0,24) can occur from a real
// clock. The out-of-range branch falls back to the T18_24 value so a broken
// upstream clock degrades the display instead of blocking it. The branch is
// kept for that never-block-display policy, not because a late-night
// reading would be the right answer.
package domain
