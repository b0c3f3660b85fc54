package sparsemap

const (
	groupSize = 8

	// Control byte states. An occupied slot stores the 7-bit h2 fingerprint
	// of its key, so the MSB is clear only for occupied slots.
	ctrlEmpty   = 0x80
	ctrlDeleted = 0xFE
)

// group is the unit of probing: 8 control bytes followed by 8 keys and 8 values.
type group[K comparable, V any] struct {
	// One uint64 load reads every control byte of the group.
	ctrls [groupSize]uint8

	// Keys and values are kept in separate arrays so that a probe that only
	// compares keys touches as few cache lines as possible.
	slots  [groupSize]K
	values [groupSize]V
}

var emptyCtrls = [groupSize]uint8{
	ctrlEmpty, ctrlEmpty, ctrlEmpty, ctrlEmpty,
	ctrlEmpty, ctrlEmpty, ctrlEmpty, ctrlEmpty,
}

func (g *group[K, V]) reset() {
	var (
		zeroK K
		zeroV V
	)

	g.ctrls = emptyCtrls
	for i := range groupSize {
		g.slots[i] = zeroK
		g.values[i] = zeroV
	}
}
