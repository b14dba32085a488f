package inventory

import "errors"

var (
	// ErrUnrecognizedShape is returned when the stored inventory document is
	// neither a legacy integer array nor a list of blood_group records.
	ErrUnrecognizedShape = errors.New("inventory: unrecognized document shape")

	// ErrUnknownBloodType is returned when an update names a blood group
	// outside the vocabulary. Nothing is changed or written.
	ErrUnknownBloodType = errors.New("inventory: unknown blood type")

	// ErrNotPersisted is returned when a stock change was applied in memory
	// but the document could not be saved.
	ErrNotPersisted = errors.New("inventory: stock change not persisted")
)
