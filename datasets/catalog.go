package datasets

import (
	"strings"
	"sync"

	"dbconsole/models"
	"dbconsole/utils"
)

type table struct {
	def    Definition
	rows   []models.Row
	nextID int
}

func newTable(def Definition) *table {
	rows := sampleRows(def.Kind)
	next := 1
	for _, r := range rows {
		if r.ID >= next {
			next = r.ID + 1
		}
	}
	return &table{def: def, rows: rows, nextID: next}
}

func (t *table) index(id int) int {
	for i, r := range t.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Catalog is one session's set of tables, seeded from the sample data
type Catalog struct {
	mu     sync.RWMutex
	tables map[Kind]*table
}

// NewCatalog builds a catalog with every table freshly seeded
func NewCatalog() *Catalog {
	c := &Catalog{tables: make(map[Kind]*table, len(definitions))}
	for kind, def := range definitions {
		c.tables[kind] = newTable(def)
	}
	return c
}

func (c *Catalog) table(kind Kind) (*table, error) {
	t, ok := c.tables[kind]
	if !ok {
		return nil, ErrUnknownTable
	}
	return t, nil
}

// Rows returns a copy of every row of the table
func (c *Catalog) Rows(kind Kind) ([]models.Row, error) {
	return c.Search(kind, "")
}

// Search returns the rows where any column contains term, ignoring case.
// An empty or blank term matches everything.
func (c *Catalog) Search(kind Kind, term string) ([]models.Row, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, err := c.table(kind)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Row, 0, len(t.rows))
	for _, r := range t.rows {
		if needle == "" || matches(r, t.def.Columns, needle) {
			out = append(out, copyRow(r))
		}
	}
	return out, nil
}

func matches(r models.Row, columns []string, needle string) bool {
	for _, col := range columns {
		if strings.Contains(strings.ToLower(r.Values[col]), needle) {
			return true
		}
	}
	return false
}

// Get returns one row
func (c *Catalog) Get(kind Kind, id int) (models.Row, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, err := c.table(kind)
	if err != nil {
		return models.Row{}, err
	}
	i := t.index(id)
	if i < 0 {
		return models.Row{}, ErrRowNotFound
	}
	return copyRow(t.rows[i]), nil
}

// Add appends a row built from the table's columns in values. Unknown keys
// are ignored; values are stripped of markup.
func (c *Catalog) Add(kind Kind, values map[string]string) (models.Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.writable(kind)
	if err != nil {
		return models.Row{}, err
	}

	values = utils.SanitizeValues(values)
	r := models.Row{ID: t.nextID, Values: make(map[string]string, len(t.def.Columns))}
	empty := true
	for _, col := range t.def.Columns {
		v := values[col]
		if v != "" {
			empty = false
		}
		r.Values[col] = v
	}
	if empty {
		return models.Row{}, ErrEmptyRow
	}

	t.nextID++
	t.rows = append(t.rows, r)
	return copyRow(r), nil
}

// Update overwrites the columns present in values and keeps the rest
func (c *Catalog) Update(kind Kind, id int, values map[string]string) (models.Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.writable(kind)
	if err != nil {
		return models.Row{}, err
	}
	i := t.index(id)
	if i < 0 {
		return models.Row{}, ErrRowNotFound
	}

	values = utils.SanitizeValues(values)
	for _, col := range t.def.Columns {
		if v, ok := values[col]; ok {
			t.rows[i].Values[col] = v
		}
	}
	return copyRow(t.rows[i]), nil
}

// Delete removes a row
func (c *Catalog) Delete(kind Kind, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.writable(kind)
	if err != nil {
		return err
	}
	i := t.index(id)
	if i < 0 {
		return ErrRowNotFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (c *Catalog) writable(kind Kind) (*table, error) {
	t, err := c.table(kind)
	if err != nil {
		return nil, err
	}
	if t.def.ReadOnly || !t.def.HasTable() {
		return nil, ErrReadOnly
	}
	return t, nil
}

func copyRow(r models.Row) models.Row {
	values := make(map[string]string, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return models.Row{ID: r.ID, Values: values}
}
