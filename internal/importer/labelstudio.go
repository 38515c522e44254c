package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/raca159/simple-label-maker/internal/label"
)

// Options controls how Label Studio tasks are converted to samples.
type Options struct {
	// SampleType is applied to every converted sample.
	SampleType label.SampleType

	// Metadata is copied onto every converted sample.
	Metadata map[string]string

	// DataField names the task data field holding the content URL.
	// Empty means the first data field in alphabetical order.
	DataField string
}

// ConvertLabelStudio converts a Label Studio task export into the sample
// list this project format uses. Task files sometimes wrap tasks in nested
// arrays; those are flattened. Tasks without a usable data URL are logged
// and skipped rather than failing the whole conversion.
func ConvertLabelStudio(r io.Reader, opts Options, logger label.Logger) ([]label.Sample, error) {
	if !opts.SampleType.Valid() {
		return nil, fmt.Errorf("unknown sample type %q", opts.SampleType)
	}

	var raw []any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing task file: %w", err)
	}

	tasks := flattenTasks(raw)

	var samples []label.Sample
	for i, entry := range tasks {
		task, ok := entry.(map[string]any)
		if !ok {
			logger.Warn("skipping task with unexpected shape", "index", i)
			continue
		}

		fileName, err := extractDataURL(task, opts.DataField)
		if err != nil {
			logger.Warn("skipping task", "index", i, "error", err)
			continue
		}

		sample := label.Sample{
			ID:       taskID(task, len(samples)),
			FileName: fileName,
			Type:     opts.SampleType,
		}
		if len(opts.Metadata) > 0 {
			sample.Metadata = make(map[string]string, len(opts.Metadata))
			for k, v := range opts.Metadata {
				sample.Metadata[k] = v
			}
		}
		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no valid samples in task file")
	}
	return samples, nil
}

// flattenTasks unwraps task entries that are themselves arrays.
func flattenTasks(raw []any) []any {
	var tasks []any
	for _, entry := range raw {
		if nested, ok := entry.([]any); ok {
			tasks = append(tasks, nested...)
			continue
		}
		tasks = append(tasks, entry)
	}
	return tasks
}

// taskID derives a sample ID from the task's id field, which Label Studio
// exports as either a number or a string.
func taskID(task map[string]any, fallbackIndex int) string {
	switch id := task["id"].(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatInt(int64(id), 10)
	}
	return "task_" + strconv.Itoa(fallbackIndex)
}

// extractDataURL pulls the content URL out of the task's data object.
func extractDataURL(task map[string]any, dataField string) (string, error) {
	data, ok := task["data"].(map[string]any)
	if !ok || len(data) == 0 {
		return "", fmt.Errorf("task has no data object")
	}

	if dataField != "" {
		value, ok := data[dataField]
		if !ok {
			return "", fmt.Errorf("task has no data field %q", dataField)
		}
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("task data field %q is not a string", dataField)
		}
		return s, nil
	}

	// No field requested: use the first one. JSON object order is not
	// preserved by the decoder, so pick alphabetically for determinism.
	fields := make([]string, 0, len(data))
	for k := range data {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	s, ok := data[fields[0]].(string)
	if !ok {
		return "", fmt.Errorf("task data field %q is not a string", fields[0])
	}
	return s, nil
}

// WriteSamples writes the converted samples to path. Files with a .yaml or
// .yml extension get YAML matching the project file's samples section;
// anything else gets indented JSON.
func WriteSamples(path string, samples []label.Sample) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(samples)
	default:
		data, err = json.MarshalIndent(samples, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding samples: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing samples to %s: %w", path, err)
	}
	return nil
}
