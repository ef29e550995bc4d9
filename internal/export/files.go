package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jwtly10/tradestats/internal/logging"
)

var exportLog = logging.New("export")

// Formats selects which files WriteFiles produces.
type Formats struct {
	Excel bool
	CSV   bool
	Pine  bool
}

// WriteFiles writes the selected formats into dir, named after prefix, and
// returns the paths written.
func WriteFiles(dir, prefix string, r Report, formats Formats) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	type job struct {
		name  string
		write func(io.Writer) error
	}
	var jobs []job
	if formats.Excel {
		jobs = append(jobs, job{prefix + ".xlsx", func(w io.Writer) error { return WriteExcel(w, r) }})
	}
	if formats.CSV {
		jobs = append(jobs,
			job{prefix + "_trades.csv", func(w io.Writer) error { return WriteTradesCSV(w, r.Trades) }},
			job{prefix + "_series.csv", func(w io.Writer) error { return WriteSeriesCSV(w, r.Series) }},
		)
	}
	if formats.Pine {
		jobs = append(jobs, job{prefix + ".pine", func(w io.Writer) error { return WritePineScript(w, r.Trades) }})
	}

	var paths []string
	for _, j := range jobs {
		path := filepath.Join(dir, j.name)
		if err := writeFile(path, j.write); err != nil {
			return paths, err
		}
		exportLog.Debug("Wrote export", "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
