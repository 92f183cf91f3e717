// Command tunegen turns a project directory into training and validation
// JSONL datasets for language-model fine-tuning.
package main

import (
	"os"

	"github.com/tunegen/tunegen/internal/app/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
