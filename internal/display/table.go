package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wara-ops/dataportal/internal/portal"
)

// UploadRow pairs a local source with where the portal stored it.
type UploadRow struct {
	Source string
	Dest   string
}

const (
	createdRule  = "----------+--------------------------------------------------------------------------------------------------"
	uploadRule   = "---------------------------------------------------+-------------------------------------------------------------"
	datasetsRule = "----------+------------------------------------------+--------------------------------+------------+---------------"
	filesRule    = "-------+--------------------------------+--------------------------------+------------+--------------+-----------------------"
)

// PrintCreated writes the id and container of a new dataset.
func PrintCreated(w io.Writer, d portal.CreatedDataset) {
	fmt.Fprintf(w, "%9s | %-40s\n", "DatasetID", "ContainerName")
	fmt.Fprintln(w, createdRule)
	id, container := "-", "-"
	if d.DatasetID != 0 {
		id = strconv.Itoa(d.DatasetID)
	}
	if d.ContainerName != "" {
		container = d.ContainerName
	}
	fmt.Fprintf(w, "%9s | %-40s\n", id, container)
}

// PrintUploads writes one line per uploaded file.
func PrintUploads(w io.Writer, rows []UploadRow) {
	fmt.Fprintf(w, "%-50s | %-50s\n", "Source", "Dest")
	fmt.Fprintln(w, uploadRule)
	for _, r := range rows {
		fmt.Fprintf(w, "%-50s | %-50s\n", r.Source, r.Dest)
	}
}

// PrintDatasets writes the dataset listing.
func PrintDatasets(w io.Writer, datasets []portal.Dataset) {
	const row = "%9s | %40s | %30s | %10s | %10s\n"
	fmt.Fprintf(w, row, "DatasetID", "DatasetName", "CreateDate", "Category", "Organization")
	fmt.Fprintln(w, datasetsRule)
	for _, d := range datasets {
		fmt.Fprintf(w, row, strconv.Itoa(d.DatasetID), d.DatasetName, d.CreateDate, d.Category, d.Organization)
	}
}

// PrintFiles writes the file listing followed, when non-empty, by a totals
// row with the file count and the summed size.
func PrintFiles(w io.Writer, files []portal.File) {
	const row = "%6s | %30s | %30s | %10s | %12s | %s\n"
	fmt.Fprintf(w, row, "FileID", "StartDate", "StopDate", "Entries", "FileSize", "MFileName")
	fmt.Fprintln(w, filesRule)

	var total int64
	for _, f := range files {
		fmt.Fprintf(w, row,
			orNA(strconv.Itoa(f.FileID), f.FileID == 0),
			strOrNA(f.StartDate),
			strOrNA(f.StopDate),
			intOrNA(f.MetricEntries),
			orNA(strconv.FormatInt(f.FileSize, 10), f.FileSize == 0),
			f.MFileName)
		total += f.FileSize
	}
	if len(files) == 0 {
		return
	}
	fmt.Fprintln(w, filesRule)
	fmt.Fprintf(w, row, strconv.Itoa(len(files)), "", "", "", FormatBytes(total), "")
}

func orNA(s string, missing bool) string {
	if missing {
		return "n/a"
	}
	return s
}

func strOrNA(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "n/a"
	}
	return *s
}

func intOrNA(n *int64) string {
	if n == nil || *n == 0 {
		return "n/a"
	}
	return strconv.FormatInt(*n, 10)
}
