package aggregates

// Contract names an aggregate and the tables one of its writes may touch.
// Every write covers all of Tables in a single transaction.
type Contract struct {
	Name   string
	Tables []string
	Notes  string
}

// Aggregate is implemented by every write boundary in the store.
type Aggregate interface {
	Contract() Contract
}

// Writes reports whether table belongs to the aggregate's transaction scope.
func (c Contract) Writes(table string) bool {
	for _, t := range c.Tables {
		if t == table {
			return true
		}
	}
	return false
}
