// Package hours decides when the restaurant accepts new orders.
package hours

import (
	"fmt"
	"time"
)

// Policy is a daily opening window plus one weekday on which the
// restaurant never opens. A window whose closing hour is not after the
// opening hour runs past midnight.
type Policy struct {
	OpeningHour   int
	ClosingHour   int
	ClosedWeekday time.Weekday
}

// Default is 19:00 to 01:00, closed on Mondays.
func Default() Policy {
	return Policy{OpeningHour: 19, ClosingHour: 1, ClosedWeekday: time.Monday}
}

// Validate checks that both hours fall within a day.
func (p Policy) Validate() error {
	if p.OpeningHour < 0 || p.OpeningHour > 23 {
		return fmt.Errorf("opening hour %d out of range", p.OpeningHour)
	}
	if p.ClosingHour < 0 || p.ClosingHour > 23 {
		return fmt.Errorf("closing hour %d out of range", p.ClosingHour)
	}
	if p.ClosedWeekday < time.Sunday || p.ClosedWeekday > time.Saturday {
		return fmt.Errorf("closed weekday %d out of range", p.ClosedWeekday)
	}
	return nil
}

// IsOpen reports whether orders may be placed at now. Only the hour and
// weekday of now, in its own location, are considered.
func (p Policy) IsOpen(now time.Time) bool {
	if now.Weekday() == p.ClosedWeekday {
		return false
	}
	h := now.Hour()
	if p.ClosingHour > p.OpeningHour {
		return h >= p.OpeningHour && h < p.ClosingHour
	}
	return h >= p.OpeningHour || h < p.ClosingHour
}

// ClosedMessage is shown to customers who try to order outside the window.
func (p Policy) ClosedMessage() string {
	first := weekdaysPT[(p.ClosedWeekday+1)%7]
	last := weekdaysPT[(p.ClosedWeekday+6)%7]
	return fmt.Sprintf("Ops! Estamos fechados no momento. Voltamos às %02d:00! Esperamos você de %s a %s!",
		p.OpeningHour, first, last)
}

var weekdaysPT = [7]string{"domingo", "segunda", "terça", "quarta", "quinta", "sexta", "sábado"}
