package domain

// Entity is implemented by every persisted record.
// Merge returns a copy of the receiver with every non-nil field of patch applied.
type Entity[T any] interface {
	GetID() *int64
	Merge(patch T) T
}

func pick[V any](current, patch *V) *V {
	if patch != nil {
		return patch
	}
	return current
}
