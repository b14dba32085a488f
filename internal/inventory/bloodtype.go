// Package inventory tracks blood-bank stock: unit counts per blood group,
// shortage detection against a threshold, and the JSON document they persist to.
package inventory

import "strings"

// BloodType is one label of the fixed blood-group vocabulary.
type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
)

// vocabulary order is also the positional order of the legacy array document.
var vocabulary = [...]BloodType{
	APositive, ANegative,
	BPositive, BNegative,
	OPositive, ONegative,
	ABPositive, ABNegative,
}

const vocabularySize = len(vocabulary)

var vocabularyIndex = func() map[BloodType]int {
	idx := make(map[BloodType]int, vocabularySize)
	for i, bt := range vocabulary {
		idx[bt] = i
	}
	return idx
}()

// Vocabulary returns the blood groups in canonical order.
func Vocabulary() []BloodType {
	out := make([]BloodType, vocabularySize)
	copy(out, vocabulary[:])
	return out
}

// ParseBloodType matches s against the vocabulary. Matching is exact and
// case-sensitive; surrounding space is ignored and a typographic minus
// (U+2212) is read as '-'.
func ParseBloodType(s string) (BloodType, bool) {
	bt := BloodType(strings.ReplaceAll(strings.TrimSpace(s), "−", "-"))
	_, ok := vocabularyIndex[bt]
	return bt, ok
}

func (b BloodType) String() string { return string(b) }
