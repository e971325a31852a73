package portal

// CreateDatasetRequest is the body of POST /dataset.
type CreateDatasetRequest struct {
	Category   string   `json:"category"`
	Tenant     string   `json:"tenant"`
	Name       string   `json:"name"`
	Owner      string   `json:"owner"`
	ShortInfo  string   `json:"short_info"`
	LongInfo   string   `json:"long_info"`
	AccessType string   `json:"access_type,omitempty"`
	Tags       []string `json:"tags"`
}

// CreatedDataset is the portal's answer to a create.
type CreatedDataset struct {
	DatasetID     int    `json:"DatasetID"`
	ContainerName string `json:"ContainerName"`
}

// FileMeta registers a data file. Dates are canonical date strings.
type FileMeta struct {
	Start            string `json:"start"`
	Stop             string `json:"stop"`
	Count            int    `json:"count"`
	UncompressedSize string `json:"uncompressedsize,omitempty"`
	DataFlag         string `json:"dataflag,omitempty"`
	DataType         string `json:"datatype,omitempty"`
}

// ExtraTarget is where an extra file lands inside the dataset container.
type ExtraTarget struct {
	Prefix   string
	Filename string
}

// UploadResult is returned by both upload endpoints.
type UploadResult struct {
	Path string `json:"path"`
}

// Dataset is one entry of GET /dataset.
type Dataset struct {
	DatasetID    int    `json:"DatasetID"`
	DatasetName  string `json:"DatasetName"`
	CreateDate   string `json:"CreateDate"`
	Category     string `json:"Category"`
	Organization string `json:"Organization"`
}

// File is one entry of GET /dataset/{id}/files. Extra files have no dates,
// entry count or metric type.
type File struct {
	FileID        int     `json:"FileID"`
	MFileName     string  `json:"MFileName"`
	DatasetID     int     `json:"DatasetID"`
	OriginName    string  `json:"OriginName"`
	StartDate     *string `json:"StartDate"`
	StopDate      *string `json:"StopDate"`
	FileSize      int64   `json:"FileSize"`
	MetricEntries *int64  `json:"MetricEntries"`
	MetricType    *string `json:"MetricType"`
	UUID          string  `json:"Uuid"`
	ExtraFile     int     `json:"ExtraFile"`
}

// IsExtra reports whether the file was uploaded as an extra file.
func (f File) IsExtra() bool { return f.ExtraFile == 1 }

type registerResponse struct {
	FileID *int `json:"fileId"`
}

type datasetsResponse struct {
	Datasets []Dataset `json:"Datasets"`
}

type filesResponse struct {
	Data []File `json:"data"`
}
