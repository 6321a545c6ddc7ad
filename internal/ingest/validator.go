package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AlokTheDataGuy/job-market-trends-analyzer/internal/model"
)

const (
	titleMinLen    = 2
	titleMaxLen    = 200
	employerMinLen = 2
	employerMaxLen = 100
	maxSkills      = 50
)

// ValidatePosting checks a posting against the ingest quality rules and
// returns one message per violation. An empty slice means the posting is
// acceptable. Invalid postings are skipped and counted, never abort a cycle.
func ValidatePosting(p *model.Posting) []string {
	var problems []string

	title := strings.TrimSpace(p.Title)
	if n := len(title); n < titleMinLen || n > titleMaxLen {
		problems = append(problems,
			fmt.Sprintf("title length %d outside [%d,%d]", n, titleMinLen, titleMaxLen))
	}
	employer := strings.TrimSpace(p.Employer)
	if n := len(employer); n < employerMinLen || n > employerMaxLen {
		problems = append(problems,
			fmt.Sprintf("employer length %d outside [%d,%d]", n, employerMinLen, employerMaxLen))
	}
	if n := len(p.Skills); n > maxSkills {
		problems = append(problems,
			fmt.Sprintf("%d extracted skills exceeds cap of %d", n, maxSkills))
	}

	return problems
}

// PostingHash computes the posting's identity hash: md5 over the lowercased
// "company-title-location" string. Two listings for the same role at the same
// employer and location collapse to one row regardless of source site.
func PostingHash(employer, title, location string) string {
	key := strings.ToLower(fmt.Sprintf("%s-%s-%s", employer, title, location))
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
