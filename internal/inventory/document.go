package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Shape names the stored layout an engine was loaded from.
type Shape int

const (
	// ShapeEmpty is a missing or empty document.
	ShapeEmpty Shape = iota
	// ShapeLegacyArray is a bare integer array aligned to the vocabulary order.
	ShapeLegacyArray
	// ShapeCanonical is a list of {blood_group, units} records.
	ShapeCanonical
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeLegacyArray:
		return "legacy_array"
	case ShapeCanonical:
		return "canonical"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// StockRecord is the canonical stored record. It is the only layout written.
type StockRecord struct {
	BloodGroup BloodType `json:"blood_group"`
	Units      int       `json:"units"`
}

// storedDocument is one of emptyDocument, legacyArrayDocument or
// canonicalDocument. It is resolved once when an engine is built.
type storedDocument interface {
	shape() Shape
	counts(defaultUnits int) [vocabularySize]int
}

type emptyDocument struct{}

func (emptyDocument) shape() Shape { return ShapeEmpty }

func (emptyDocument) counts(defaultUnits int) [vocabularySize]int {
	var out [vocabularySize]int
	for i := range out {
		out[i] = defaultUnits
	}
	return out
}

type legacyArrayDocument struct {
	units []int
}

func (legacyArrayDocument) shape() Shape { return ShapeLegacyArray }

// counts assigns positionally; positions the array does not reach stay zero.
func (d legacyArrayDocument) counts(int) [vocabularySize]int {
	var out [vocabularySize]int
	copy(out[:], d.units)
	return out
}

type canonicalDocument struct {
	records []StockRecord
}

func (canonicalDocument) shape() Shape { return ShapeCanonical }

// counts takes the first record per blood group; missing groups stay zero.
func (d canonicalDocument) counts(int) [vocabularySize]int {
	var out [vocabularySize]int
	var seen [vocabularySize]bool
	for _, r := range d.records {
		i, ok := vocabularyIndex[r.BloodGroup]
		if !ok || seen[i] {
			continue
		}
		out[i] = r.Units
		seen[i] = true
	}
	return out
}

type storedRecord struct {
	BloodGroup *string `json:"blood_group"`
	Units      *int    `json:"units"`
}

// parseDocument decides which stored layout raw is in. The first element
// picks the layout and every other element must agree with it.
func parseDocument(raw []json.RawMessage, logger *logging.Logger) (storedDocument, error) {
	if len(raw) == 0 {
		return emptyDocument{}, nil
	}
	switch leadingByte(raw[0]) {
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return parseLegacyArray(raw, logger)
	case '{':
		return parseCanonical(raw, logger)
	default:
		return nil, fmt.Errorf("%w: first element is %s", ErrUnrecognizedShape, preview(raw[0]))
	}
}

func parseLegacyArray(raw []json.RawMessage, logger *logging.Logger) (storedDocument, error) {
	units := make([]int, 0, len(raw))
	for i, r := range raw {
		var n int
		if err := json.Unmarshal(r, &n); err != nil {
			return nil, fmt.Errorf("%w: element %d of integer array is %s", ErrUnrecognizedShape, i, preview(r))
		}
		units = append(units, n)
	}
	if len(units) > vocabularySize {
		logger.Warn("inventory: legacy array longer than vocabulary, ignoring extra entries", "length", len(units))
		units = units[:vocabularySize]
	} else if len(units) < vocabularySize {
		logger.Warn("inventory: legacy array shorter than vocabulary, missing groups default to zero", "length", len(units))
	}
	return legacyArrayDocument{units: units}, nil
}

func parseCanonical(raw []json.RawMessage, logger *logging.Logger) (storedDocument, error) {
	records := make([]StockRecord, 0, len(raw))
	for i, r := range raw {
		if leadingByte(r) != '{' {
			return nil, fmt.Errorf("%w: element %d of record list is %s", ErrUnrecognizedShape, i, preview(r))
		}
		var rec storedRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrUnrecognizedShape, i, err)
		}
		if rec.BloodGroup == nil {
			return nil, fmt.Errorf("%w: element %d has no blood_group", ErrUnrecognizedShape, i)
		}
		if rec.Units == nil {
			return nil, fmt.Errorf("%w: element %d has no units", ErrUnrecognizedShape, i)
		}
		bt := BloodType(*rec.BloodGroup)
		if _, ok := vocabularyIndex[bt]; !ok {
			logger.Warn("inventory: ignoring record for unknown blood group", "blood_group", *rec.BloodGroup)
			continue
		}
		records = append(records, StockRecord{BloodGroup: bt, Units: *rec.Units})
	}
	return canonicalDocument{records: records}, nil
}

func leadingByte(r json.RawMessage) byte {
	trimmed := bytes.TrimSpace(r)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func preview(r json.RawMessage) string {
	const limit = 40
	s := string(bytes.TrimSpace(r))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
