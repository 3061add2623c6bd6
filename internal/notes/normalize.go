package notes

import "strings"

// Bullet prefixes left untouched by NormalizeBullets.
var bulletPrefixes = []string{"- ", "• "}

// NormalizeBullets trims each entry, drops blank ones and gives the rest a
// "- " prefix unless they already carry a bullet. Order is preserved.
func NormalizeBullets(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !hasBullet(s) {
			s = "- " + s
		}
		out = append(out, s)
	}
	return out
}

func hasBullet(s string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Normalize rewrites the three bullet lists in place. Title is kept as is.
func (n *Notes) Normalize() {
	n.KeyConcepts = NormalizeBullets(n.KeyConcepts)
	n.ImportantPoints = NormalizeBullets(n.ImportantPoints)
	n.ExamTips = NormalizeBullets(n.ExamTips)
}
