package extract

// Collector accumulates the values of one run. Build a fresh Collector per
// run; it is not safe for concurrent use.
type Collector struct {
	ex      *Extractor
	values  []string
	records []string
	codes   []string
	unique  map[string]struct{}
	lines   int
}

// NewCollector returns an empty Collector that scans with ex.
func NewCollector(ex *Extractor) *Collector {
	return &Collector{
		ex:     ex,
		unique: make(map[string]struct{}),
	}
}

// Add scans one line and routes each value: every value into the flat
// sequence, shipments and items into records and the unique set, codes
// into the code sequence.
func (c *Collector) Add(line string) {
	values := c.ex.Scan(line)
	c.lines++
	for _, v := range values {
		c.values = append(c.values, v.Text)
		if v.Kind.IsRecord() {
			c.records = append(c.records, v.Text)
			c.unique[v.Text] = struct{}{}
			continue
		}
		c.codes = append(c.codes, v.Text)
	}
}

// Values returns every extracted value in encounter order.
func (c *Collector) Values() []string { return c.values }

// Records returns shipment and item values in encounter order, duplicates
// included.
func (c *Collector) Records() []string { return c.records }

// Codes returns identification codes in encounter order.
func (c *Collector) Codes() []string { return c.codes }

// UniqueCount is the number of distinct shipment and item values.
func (c *Collector) UniqueCount() int { return len(c.unique) }

// Lines is the number of lines scanned so far.
func (c *Collector) Lines() int { return c.lines }
