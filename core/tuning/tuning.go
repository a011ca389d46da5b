// Package tuning maps (instrument, tuning) pairs to ordered string labels.
package tuning

// DefaultInstrument and DefaultTuning identify the fallback tuning used
// when a lookup misses.
const (
	DefaultInstrument = "ukulele"
	DefaultTuning     = "ukulele_standard"
)

// registry is the static tuning table. Only ukulele tunings are wired;
// the shape is open to more instruments.
var registry = map[string]map[string][]string{
	"ukulele": {
		"ukulele_standard": {"G", "C", "E", "A"},
		"ukulele_baritone": {"D", "G", "B", "E"},
		"ukulele_d":        {"A", "D", "F#", "B"},
	},
}

// Labels returns the ordered string labels for an instrument/tuning pair.
// Unknown pairs fall back to ukulele standard tuning.
func Labels(instrument, tuning string) []string {
	if byTuning, ok := registry[instrument]; ok {
		if labels, ok := byTuning[tuning]; ok {
			return clone(labels)
		}
	}
	return clone(registry[DefaultInstrument][DefaultTuning])
}

// StringCount returns the number of strings for an instrument/tuning pair.
func StringCount(instrument, tuning string) int {
	return len(Labels(instrument, tuning))
}

// Known reports whether the instrument/tuning pair is registered.
func Known(instrument, tuning string) bool {
	byTuning, ok := registry[instrument]
	if !ok {
		return false
	}
	_, ok = byTuning[tuning]
	return ok
}

func clone(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}
