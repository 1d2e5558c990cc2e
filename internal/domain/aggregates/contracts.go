package aggregates

import "fmt"

// Contract is what a store promises about its writes.
type Contract struct {
	Name string
	// AtomicWrites means every write method commits exactly one transaction.
	AtomicWrites bool
	// InsertIfAbsent means create-once rows are keyed by a unique constraint and
	// a losing writer observes the winner's row instead of an error.
	InsertIfAbsent bool
	Notes          string
}

// Aggregate is implemented by every store that publishes a Contract.
type Aggregate interface {
	Contract() Contract
}

// Satisfies reports the first guarantee c lacks that want requires.
func (c Contract) Satisfies(want Contract) error {
	if want.AtomicWrites && !c.AtomicWrites {
		return fmt.Errorf("store %q does not commit writes atomically", c.Name)
	}
	if want.InsertIfAbsent && !c.InsertIfAbsent {
		return fmt.Errorf("store %q does not guarantee insert-if-absent", c.Name)
	}
	return nil
}
