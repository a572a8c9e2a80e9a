// Package textfmt renders fixed-width text for tabular output that mixes
// ASCII with East-Asian wide characters.
//
// Display width is not rune count: runes in the East-Asian wide block count
// more units than ASCII, and the ratio is configurable so tables stay aligned
// in fonts where a wide glyph is not exactly two narrow glyphs (the ledger
// table uses 5 units per 3 narrow-rune chunk). A wide rune cannot be split
// into fractional narrow units, so fractional accounting is corrected by
// prepending full-width spaces.
package textfmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	wideLow  = 0x3000
	wideHigh = 0x9FFF

	// wideSpace is the full-width space used to compensate a partial wide
	// chunk (U+3000).
	wideSpace = "　"

	ellipsis = "..."
)

// Rate is a display-width ratio: a chunk of Narrow wide runes costs Wide
// units, and every other rune costs one unit.
type Rate struct {
	Narrow int
	Wide   int
}

// DefaultRate treats a wide rune as exactly two narrow ones.
var DefaultRate = Rate{Narrow: 1, Wide: 2}

// TableRate is the tighter 5-units-per-3-wide-runes ratio used by the ledger
// history table.
var TableRate = Rate{Narrow: 3, Wide: 5}

// Options controls Pad behavior.
type Options struct {
	// Rate overrides DefaultRate when non-nil.
	Rate *Rate

	// ZeroPad pads with '0' instead of ' '.
	ZeroPad bool

	// Truncate shortens text that exceeds the target width, ending it with
	// "...". Without it, over-long text is returned unmodified.
	Truncate bool
}

// IsWide reports whether r falls in the wide block [U+3000, U+9FFF].
func IsWide(r rune) bool {
	return r >= wideLow && r <= wideHigh
}

// measure returns the number of compensation full-width spaces owed for a
// partial wide chunk, and the display width of text under rate.
func measure(text string, rate Rate) (addWide, width int) {
	var wide, narrow int
	for _, r := range text {
		if IsWide(r) {
			wide++
		} else {
			narrow++
		}
	}
	chunks := wide / rate.Narrow
	if rem := wide % rate.Narrow; rem != 0 {
		addWide = rate.Narrow - rem
		chunks++
	}
	return addWide, narrow + chunks*rate.Wide
}

// Width returns the display width of text under the given rate (nil means
// DefaultRate), including compensation for a partial wide chunk.
func Width(text string, rate *Rate) int {
	r := DefaultRate
	if rate != nil {
		r = *rate
	}
	_, w := measure(text, r)
	return w
}

// Pad formats text to the target display width.
//
// Text below the width is right-aligned: compensation full-width spaces
// first, then padding, then the text. Text above the width is truncated when
// requested and otherwise returned as is.
func Pad(text string, width int, opts Options) string {
	rate := DefaultRate
	if opts.Rate != nil {
		rate = *opts.Rate
	}

	addWide, length := measure(text, rate)
	if length > width {
		if opts.Truncate {
			return truncate(text, width, rate)
		}
		return text
	}

	pad := " "
	if opts.ZeroPad {
		pad = "0"
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(wideSpace, addWide))
	b.WriteString(strings.Repeat(pad, width-length))
	b.WriteString(text)
	return b.String()
}

// truncate walks text rune by rune and stops before the rune that would push
// the accumulated width past width-3, reserving room for the ellipsis. A wide
// rune is never split: stopping inside a partial wide chunk emits the owed
// full-width spaces instead.
func truncate(text string, width int, rate Rate) string {
	var (
		kept       strings.Builder
		owedSpaces int // compensation spaces for the open wide chunk
		chunks     int
		narrow     int
	)
	for _, r := range text {
		if IsWide(r) {
			if owedSpaces == 0 {
				// r opens a new chunk.
				chunks++
				owedSpaces = rate.Narrow - 1
			} else {
				owedSpaces--
			}
			if narrow+chunks*rate.Wide+len(ellipsis) > width {
				// Overflow can only trigger on the rune that opened the
				// chunk, so the kept text owes no compensation.
				return kept.String() + ellipsis
			}
		} else {
			narrow++
			if narrow+chunks*rate.Wide+len(ellipsis) > width {
				return strings.Repeat(wideSpace, owedSpaces) + kept.String() + ellipsis
			}
		}
		kept.WriteRune(r)
	}
	return kept.String()
}

// FormatDate renders t as a zero-padded "YYYY-MM-DD hh:mm:ss" table cell.
func FormatDate(t time.Time) string {
	opts := Options{Rate: &TableRate, ZeroPad: true}
	return fmt.Sprintf("%s-%s-%s %s:%s:%s",
		Pad(strconv.Itoa(t.Year()), 4, opts),
		Pad(strconv.Itoa(int(t.Month())), 2, opts),
		Pad(strconv.Itoa(t.Day()), 2, opts),
		Pad(strconv.Itoa(t.Hour()), 2, opts),
		Pad(strconv.Itoa(t.Minute()), 2, opts),
		Pad(strconv.Itoa(t.Second()), 2, opts),
	)
}
