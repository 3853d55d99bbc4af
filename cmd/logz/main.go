// logz - Log Ingestion and Filtering Tool
//
// logz reads plain or gzip-compressed log files, finds the timestamp and
// severity of every line, and keeps the lines that pass time-range, level,
// substring and regex filters. It can also follow a single growing file.
package main

import (
	"os"

	"github.com/ccollicutt/logz/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
