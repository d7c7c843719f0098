package utils

// CapitalInfo records which rune offsets of a lowercased string held an
// uppercase letter, so a corrected word can be re-cased to match the
// original token's capitalization pattern.
type CapitalInfo struct {
	positions []int
	chars     []rune
}

// ProcessCapitals lowercases s and records where its capitals were, or
// returns a nil CapitalInfo if s had none.
func ProcessCapitals(s string) (string, *CapitalInfo) {
	var info *CapitalInfo
	lowered := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			if info == nil {
				info = &CapitalInfo{}
			}
			info.positions = append(info.positions, len(lowered))
			info.chars = append(info.chars, r)
			r = r - 'A' + 'a'
		}
		lowered = append(lowered, r)
	}
	return string(lowered), info
}

// ApplyCapitals re-applies info's recorded capitalization to word's
// matching rune positions. A nil info returns word unchanged.
func ApplyCapitals(word string, info *CapitalInfo) string {
	if info == nil {
		return word
	}
	runes := []rune(word)
	for i, pos := range info.positions {
		if pos < len(runes) {
			runes[pos] = info.chars[i]
		}
	}
	return string(runes)
}
