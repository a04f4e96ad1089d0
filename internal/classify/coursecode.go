package classify

import (
	"regexp"
	"strings"
)

// Course-code recognition. The numbered-code and department-prefix patterns
// run on the uppercased text so "econ 101" still matches. The standalone
// 3-4 letter token pattern runs on the raw text: it only fires on tokens the
// event itself capitalizes ("RHET", "ECON"), otherwise every short English
// word would count as a department code. It still false-positives on
// unrelated acronyms ("NASA", "AWS"); that trade-off is accepted so schedule
// imports that list only a department code land in College Classes.
var (
	// Department code followed by a course number, e.g. "MATH 201", "RHET 1010".
	numberedCodePattern = regexp.MustCompile(`\b[A-Z]{3,4}\s+\d{3,4}\b`)
	// Standalone department code, e.g. "RHET", "ECON". Matched case-sensitively.
	standaloneCodePattern = regexp.MustCompile(`\b[A-Z]{3,4}\b`)
	// Curated common department prefixes.
	departmentPrefixPattern = regexp.MustCompile(`\b(CS|MATH|PHYS|CHEM|BIO|HIST|ENGL|SPAN|FREN|GERM|ECON|PSYC|SOCI|POLI|GOVT|LAW|MED|NURS|BUS|MKT|FIN|ACC|MGMT|HR|OPS|SUPPLY|LOG|PSYCH|SOC|ANTH|POL|GOV|PHARM|DENT|VET|AGRI|ENV|GEO|MET|OCEAN|RHE|THEA|FILM|PHOTO|DRAW|PAINT|SCULPT|ARCH|DESIGN|MUS|DRAM|ART|SCI|TECH|INFO|DATA|COMP|ALG|GEOM|TRIG|CALC|STAT)\b`)
)

// DetectCourseCode reports whether text contains something that looks like an
// academic course code. Empty text never matches.
func DetectCourseCode(text string) bool {
	if text == "" {
		return false
	}
	if standaloneCodePattern.MatchString(text) {
		return true
	}
	upper := strings.ToUpper(text)
	return numberedCodePattern.MatchString(upper) || departmentPrefixPattern.MatchString(upper)
}
