package market

import "time"

// Session hours: 09:15 to 15:30 local time, every day. There is no
// holiday calendar in the simulation.
const (
	openHour    = 9
	openMinute  = 15
	closeHour   = 15
	closeMinute = 30
)

// Status describes whether the market is trading.
type Status struct {
	Open  bool   `json:"open"`
	Label string `json:"label"` // "Live" or "Closed"
}

// StatusAt reports the market status at the given wall-clock time.
func StatusAt(now time.Time) Status {
	h, m := now.Hour(), now.Minute()
	afterOpen := h > openHour || (h == openHour && m >= openMinute)
	beforeClose := h < closeHour || (h == closeHour && m <= closeMinute)
	if afterOpen && beforeClose {
		return Status{Open: true, Label: "Live"}
	}
	return Status{Open: false, Label: "Closed"}
}
