package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/redactpdf/internal/model"
	"github.com/nao1215/redactpdf/internal/report"
)

// ProblemKind classifies a verification failure.
type ProblemKind string

// Problem kinds reported by Verify.
const (
	// ProblemMissingFile means a file listed in output_files does not exist.
	ProblemMissingFile ProblemKind = "missing_file"

	// ProblemDigestMismatch means a page file changed after the run.
	ProblemDigestMismatch ProblemKind = "digest_mismatch"

	// ProblemStrayFile means a page file exists that the log does not list.
	ProblemStrayFile ProblemKind = "stray_file"

	// ProblemSkippedPage means a page listed in skip_pages was written.
	ProblemSkippedPage ProblemKind = "skipped_page"

	// ProblemMetadata means a page file carries an EXIF block.
	ProblemMetadata ProblemKind = "metadata"

	// ProblemStats means the log statistics contradict each other.
	ProblemStats ProblemKind = "stats_mismatch"
)

// Problem is one verification failure.
type Problem struct {
	Kind   ProblemKind `json:"kind"`
	File   string      `json:"file,omitempty"`
	Detail string      `json:"detail"`
}

// String returns a one-line description.
func (p Problem) String() string {
	if p.File == "" {
		return fmt.Sprintf("[%s] %s", p.Kind, p.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", p.Kind, p.File, p.Detail)
}

// Result is the outcome of verifying one output directory.
type Result struct {
	// Dir is the verified directory.
	Dir string `json:"dir"`

	// Log is the processing log found in Dir.
	Log *model.ProcessingLog `json:"log"`

	// Checked is the number of page files examined.
	Checked int `json:"checked"`

	// Problems lists every failure found, in file order.
	Problems []Problem `json:"problems"`
}

// OK reports whether no problem was found.
func (r *Result) OK() bool {
	return len(r.Problems) == 0
}

func (r *Result) add(kind ProblemKind, file, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{Kind: kind, File: file, Detail: fmt.Sprintf(format, args...)})
}

var pageFilePattern = regexp.MustCompile(`^p(\d{3,})\.png$`)

// Verify checks dir against its redaction_log.json.
//
// The returned error is only set when the log itself is missing or
// unreadable (report.ErrLogNotFound for an incomplete run). Everything
// else is reported as a Problem in the Result.
func Verify(dir string) (*Result, error) {
	log, err := report.ReadLog(dir)
	if err != nil {
		return nil, err
	}

	result := &Result{Dir: dir, Log: log, Problems: make([]Problem, 0)}

	stats := log.Stats
	if len(stats.OutputFiles) != stats.RedactedPages {
		result.add(ProblemStats, "", "redacted_pages is %d but %d output files are listed",
			stats.RedactedPages, len(stats.OutputFiles))
	}

	listed := make(map[string]struct{}, len(stats.OutputFiles))
	for _, name := range stats.OutputFiles {
		listed[name] = struct{}{}
	}
	digests := make(map[string]string, len(log.OutputDigests))
	for _, d := range log.OutputDigests {
		digests[d.File] = d.Digest
	}
	skip := log.ConfigUsed.SkipSet()

	for _, name := range stats.OutputFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) //nolint:gosec // file name comes from the log of a directory chosen by the user
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				result.add(ProblemMissingFile, name, "listed in output_files but not found")
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		result.Checked++

		if want, ok := digests[name]; ok {
			if got := report.DigestBytes(data); got != want {
				result.add(ProblemDigestMismatch, name, "expected %s, got %s", want, got)
			}
		}

		if n, ok := pageNumber(name); ok {
			if _, skipped := skip[n]; skipped {
				result.add(ProblemSkippedPage, name, "page %d is in skip_pages", n)
			}
		}

		if tags := metadataTags(data); len(tags) > 0 {
			result.add(ProblemMetadata, name, "EXIF tags present: %s", strings.Join(tags, ", "))
		}
	}

	stray, err := strayPageFiles(dir, listed)
	if err != nil {
		return nil, err
	}
	for _, name := range stray {
		result.add(ProblemStrayFile, name, "page file not listed in the processing log")
	}

	return result, nil
}

// strayPageFiles returns page files in dir that are not in listed.
func strayPageFiles(dir string, listed map[string]struct{}) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	stray := make([]string, 0)
	for _, e := range entries {
		if e.IsDir() || !pageFilePattern.MatchString(e.Name()) {
			continue
		}
		if _, ok := listed[e.Name()]; !ok {
			stray = append(stray, e.Name())
		}
	}
	sort.Strings(stray)
	return stray, nil
}

// pageNumber extracts N from a pNNN.png file name.
func pageNumber(name string) (int, bool) {
	m := pageFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// metadataTags returns the EXIF tag names embedded in an image file.
// A byte sequence that merely looks like a TIFF header but does not parse
// is not reported.
func metadataTags(data []byte) []string {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || len(rawExif) == 0 {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil || len(entries) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(entries))
	tags := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.TagName]; ok {
			continue
		}
		seen[entry.TagName] = struct{}{}
		tags = append(tags, entry.TagName)
	}
	sort.Strings(tags)
	return tags
}
