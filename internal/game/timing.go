package game

// DefaultTickRate is the number of ticks per second when none is configured.
const DefaultTickRate = 20

// SecsToTicks converts a duration in seconds to game ticks at rate.
func SecsToTicks(s float64, rate int) int {
	t := int(s * float64(rate))
	if t < 1 {
		t = 1
	}
	return t
}

// MoveRepeatSecs is the minimum time between cursor moves when a key is
// held. Converted to ticks against the loop's rate.
const MoveRepeatSecs = 0.1

// DefaultScrollSpeed is how many pixels per tick the view eases toward the
// cursor.
const DefaultScrollSpeed = 4
