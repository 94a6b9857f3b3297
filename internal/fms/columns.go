package fms

// Default column names of the fms.total_result table.
const (
	DefaultStatusColumn   = "부적합여부"
	DefaultCategoryColumn = "품종"
	DefaultWeightColumn   = "종란무게"
	DefaultIDColumn       = "육계번호"

	// UnknownCategory groups rows without a category.
	UnknownCategory = "Unknown"
)

// Columns names the columns the classifier and aggregator read.
type Columns struct {
	Status   string
	Category string
	Weight   string
	ID       string
}

// DefaultColumns returns the column names used by the production dataset.
func DefaultColumns() Columns {
	return Columns{
		Status:   DefaultStatusColumn,
		Category: DefaultCategoryColumn,
		Weight:   DefaultWeightColumn,
		ID:       DefaultIDColumn,
	}
}

// withDefaults fills blank names with the defaults.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Status == "" {
		c.Status = d.Status
	}
	if c.Category == "" {
		c.Category = d.Category
	}
	if c.Weight == "" {
		c.Weight = d.Weight
	}
	if c.ID == "" {
		c.ID = d.ID
	}
	return c
}

func (c Columns) all() []string {
	return []string{c.Status, c.Category, c.Weight, c.ID}
}
