package naming

// Kind classifies a file name against the convention.
type Kind string

const (
	KindMetric Kind = "metric"
	KindLog    Kind = "log"
	KindExtra  Kind = "extra" // Does not follow the convention.
)

// Record is the decoded form of a file name: one of [Metric], [Log] or
// [Extra]. Use a type switch on the concrete value to reach the fields.
type Record interface {
	Kind() Kind
	record()
}

// Metric is a metric data file.
type Metric struct {
	Name        string
	Type        string
	Start       string
	Stop        string
	Count       string
	Flag        string
	Ext         string
	Compression string // Empty when the file is not compressed.
	Prefix      string // First four characters of Start.
}

// Log is a log data file. Logs are always compressed.
type Log struct {
	Name        string
	Start       string
	Stop        string
	Count       string
	Size        string // Uncompressed size, free text (e.g. "8.1G").
	Flag        string
	Type        string // Empty when the name carries no data type.
	Compression string
	Prefix      string // First four characters of Start.
}

// Extra marks a file that does not follow the convention. It carries no
// data; such files are uploaded as opaque extra files.
type Extra struct{}

func (Metric) Kind() Kind { return KindMetric }
func (Log) Kind() Kind    { return KindLog }
func (Extra) Kind() Kind  { return KindExtra }

func (Metric) record() {}
func (Log) record()    {}
func (Extra) record()  {}
