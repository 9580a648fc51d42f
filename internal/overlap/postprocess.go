package overlap

import "github.com/docsynth/layoutfix/internal/box"

// FilterSmall drops boxes with height below minHeight and reports how many
// were removed. A negative minHeight keeps everything.
func FilterSmall(boxes []box.Box, minHeight float64) ([]box.Box, int) {
	if minHeight < 0 {
		return boxes, 0
	}
	kept := make([]box.Box, 0, len(boxes))
	for _, b := range boxes {
		if b.Height >= minHeight {
			kept = append(kept, b)
		}
	}
	return kept, len(boxes) - len(kept)
}

// Dedupe keeps the first of each group of boxes sharing label, id, image id
// and geometry rounded to two decimals.
func Dedupe(boxes []box.Box) ([]box.Box, int) {
	seen := make(map[box.Key]struct{}, len(boxes))
	unique := make([]box.Box, 0, len(boxes))
	for _, b := range boxes {
		k := b.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, b)
	}
	return unique, len(boxes) - len(unique)
}
