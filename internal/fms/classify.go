package fms

import "strings"

// FailToken is the Korean status text marking a failed inspection.
const FailToken = "부적합"

// Verdict is the pass/fail outcome of one result row.
type Verdict int

// Verdicts.
const (
	Pass Verdict = iota
	Fail
)

func (v Verdict) String() string {
	if v == Fail {
		return "fail"
	}
	return "pass"
}

// ClassifyStatus maps free-text status to a verdict. Only FailToken (exact,
// byte for byte) and "fail" (any case) fail; anything else, including blank
// or a decomposed spelling of FailToken, passes.
func ClassifyStatus(status string) Verdict {
	s := strings.TrimSpace(status)
	if s == FailToken || strings.EqualFold(s, "fail") {
		return Fail
	}
	return Pass
}

// Classify reads the status column of rec and classifies it.
// A missing or null status column passes.
func Classify(rec Record, cols Columns) Verdict {
	return ClassifyStatus(rec.String(cols.withDefaults().Status, ""))
}
