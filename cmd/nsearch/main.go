// Command nsearch searches nucleotide or protein sequences against a
// reference database and reports alnout-formatted hits, or merges
// paired-end reads. The subcommand/flag surface reproduces
// original_source's docopt usage string in cobra form.
package main

import (
	"io"
	"os"
	"runtime"

	colorable "github.com/mattn/go-colorable"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nsearch",
	Short: "nsearch searches sequences against a reference database",
}

var log = logging.MustGetLogger("nsearch")

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`,
)

func init() {
	var stderr io.Writer = os.Stderr
	if runtime.GOOS == "windows" {
		stderr = colorable.NewColorableStderr()
	}
	backend := logging.NewLogBackend(stderr, "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, logFormat))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}
