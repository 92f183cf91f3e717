package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tunegen/tunegen/internal/contracts/v1/dataset"
	"github.com/tunegen/tunegen/internal/platform/errors"
	"github.com/tunegen/tunegen/internal/platform/glob"
)

const (
	FormatSource = "source"
	FormatChat   = "chat"

	// BinarySkip and BinaryFail decide what happens to binary and non-UTF-8 files.
	BinarySkip = "skip"
	BinaryFail = "fail"

	PartitionTraining   = "training"
	PartitionValidation = "validation"
)

func ValidFormat(format string) bool {
	return format == FormatSource || format == FormatChat
}

func ValidBinaryPolicy(policy string) bool {
	return policy == BinarySkip || policy == BinaryFail
}

// projectNamespace roots the per-project UUID namespaces.
var projectNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://tunegen.dev/projects"))

// RecordID is the deterministic id of relPath within project.
func RecordID(project string, relPath string) string {
	ns := uuid.NewSHA1(projectNamespace, []byte(project))
	return uuid.NewSHA1(ns, []byte(relPath)).String()
}

// ValidateProjectName rejects names that cannot prefix an output filename.
func ValidateProjectName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.NewUsage("project name is empty")
	case strings.ContainsAny(name, `/\`):
		return errors.NewUsage("project name must not contain path separators: " + name)
	case name == "." || name == "..":
		return errors.NewUsage("project name is not a valid filename prefix: " + name)
	}
	return nil
}

// DatasetFileName is {project}_{partition}_{stamp}.jsonl.
func DatasetFileName(project string, partition string, stamp string) string {
	return fmt.Sprintf("%s_%s_%s.jsonl", project, partition, stamp)
}

// OwnOutputPatterns are ignore patterns matching datasets previously written
// for project, so that re-runs into the project root do not ingest them.
func OwnOutputPatterns(project string) []string {
	base := glob.Escape(project)
	return []string{
		"/" + base + "_" + PartitionTraining + "_*.jsonl",
		"/" + base + "_" + PartitionValidation + "_*.jsonl",
	}
}

// SourceRecords renders files as SourceRecordV1 lines.
func SourceRecords(project string, files []SourceFile) []any {
	out := make([]any, 0, len(files))
	for _, f := range files {
		out = append(out, dataset.SourceRecordV1{
			ID:         RecordID(project, f.RelPath),
			Path:       f.RelPath,
			Content:    f.Content,
			TokenCount: f.TokenCount,
		})
	}
	return out
}

// ChatRecords renders files as question/answer chat records.
func ChatRecords(project string, files []SourceFile) []any {
	out := make([]any, 0, len(files))
	for _, f := range files {
		out = append(out, dataset.ChatRecordV1{Messages: []dataset.MessageV1{
			{Role: "user", Content: fmt.Sprintf("What is the source code of %s for the %s project?", f.RelPath, project)},
			{Role: "assistant", Content: f.Content},
		}})
	}
	return out
}

// StructureRecord asks for the project's file layout and answers with paths
// as a ProjectStructureV1 JSON document.
func StructureRecord(project string, paths []string) (dataset.ChatRecordV1, error) {
	if paths == nil {
		paths = []string{}
	}
	var answer bytes.Buffer
	enc := json.NewEncoder(&answer)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(dataset.ProjectStructureV1{ProjectStructure: paths}); err != nil {
		return dataset.ChatRecordV1{}, errors.NewInternal("failed to encode project structure", err)
	}
	question := fmt.Sprintf("What is the file structure of the %s project? "+
		`Please answer with json with the next structure: {"project_structure": ["file1", "file2", ...]}`, project)
	return dataset.ChatRecordV1{Messages: []dataset.MessageV1{
		{Role: "user", Content: question},
		{Role: "assistant", Content: strings.TrimSuffix(answer.String(), "\n")},
	}}, nil
}
