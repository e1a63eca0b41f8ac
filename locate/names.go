package locate

import (
	"regexp"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// framePattern parses a frame name into section and slide numbers
type framePattern struct {
	re *regexp.Regexp

	// implicitSection is used when the pattern captures only the slide
	implicitSection int
}

// Frame-name patterns in priority order
var framePatterns = []framePattern{
	{re: regexp.MustCompile(`(?i)section\s*(\d+).*?slide\s*(\d+)`)},
	{re: regexp.MustCompile(`(?i)\bs(\d+).*?s?(\d+)`)},
	{re: regexp.MustCompile(`(\d+)\.(\d+)`)},
	{re: regexp.MustCompile(`(?i)slide\s*(\d+)`), implicitSection: 1},
}

// ParseFrameName extracts section and slide numbers from a frame name such
// as "Section 2 - Slide 4", "S2 S4", "2.4" or "Slide 4" (section 1). The
// name is NFKC-normalised first so full-width digits and letters match.
// The first matching pattern wins.
func ParseFrameName(name string) (section, slide int, ok bool) {
	name = norm.NFKC.String(name)

	for _, p := range framePatterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}

		if p.implicitSection > 0 {
			slide, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return p.implicitSection, slide, true
		}

		section, err1 := strconv.Atoi(m[1])
		slide, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		return section, slide, true
	}

	return 0, 0, false
}
