package check

import (
	"fmt"
	"strings"
	"sync"

	"github.com/muntasir-islam/seo-audit-tool/internal/fetch"
	"github.com/muntasir-islam/seo-audit-tool/internal/page"
	apperrors "github.com/muntasir-islam/seo-audit-tool/internal/shared/errors"
)

// Category groups checks into the fixed scoring buckets. The weight each
// category carries lives in internal/score.
type Category string

const (
	CategoryMeta      Category = "Meta Tags"
	CategoryHeadings  Category = "Headings"
	CategoryImages    Category = "Images"
	CategoryLinks     Category = "Links"
	CategoryTechnical Category = "Technical"
	CategoryContent   Category = "Content"
	CategoryMobile    Category = "Mobile & UX"
	CategorySocial    Category = "Social"
	CategorySchema    Category = "Structured Data"
)

// Categories lists every category in report order.
func Categories() []Category {
	return []Category{
		CategoryMeta,
		CategoryHeadings,
		CategoryImages,
		CategoryLinks,
		CategoryTechnical,
		CategoryContent,
		CategoryMobile,
		CategorySocial,
		CategorySchema,
	}
}

// Severity is the static classification a failing check carries. It is
// declared once per check in the registry, never computed at runtime.
type Severity string

const (
	// SeverityOK marks informational checks and is the result severity of
	// every check that did not raise an issue.
	SeverityOK             Severity = "ok"
	SeverityCritical       Severity = "critical"
	SeverityWarning        Severity = "warning"
	SeverityRecommendation Severity = "recommendation"
)

// Spec declares one registered check: a pure evaluation over fetched page
// data plus the static metadata scoring and classification read from it.
// Checks with zero points are informational; they report a measured value
// and never affect a category score.
type Spec struct {
	Name     string
	Category Category
	Severity Severity
	Points   float64
	Eval     func(in *Input) Result
}

// Result is the outcome of one check evaluation.
type Result struct {
	// Value is the measured outcome: a bool, a number, or a string.
	Value any
	// Credit is the fraction of the check's points earned, in [0,1].
	Credit float64
	// Skipped marks the check as not applicable to this page. Skipped
	// checks still report their Value but are excluded from the category
	// denominator.
	Skipped bool
	// Issue, when non-empty, is the human-readable problem message. Its
	// severity comes from the check's static Severity field.
	Issue string
	// Good, when non-empty, is a positive note for the passed section of
	// reports.
	Good string
}

// Evaluation pairs a spec with its result for one audit.
type Evaluation struct {
	Spec   Spec
	Result Result
}

// ResultSeverity is "ok" for a clean check and the declared Severity
// when the check raised an issue.
func (e Evaluation) ResultSeverity() Severity {
	if e.Result.Issue == "" {
		return SeverityOK
	}
	return e.Spec.Severity
}

// Input bundles everything a check may read: the parsed document, the
// response metadata, and the optional target keyword. Derived views of the
// page (tokenized text, link and image tallies, parsed JSON-LD) are memoized
// here so checks stay independent of each other without re-walking the DOM
// two hundred times per audit.
type Input struct {
	Page     *page.Document
	Snapshot *fetch.Snapshot
	// Keyword is the lower-cased target keyword, empty when none was given.
	Keyword string

	textOnce    sync.Once
	text        *TextStats
	linkOnce    sync.Once
	links       *LinkStats
	imageOnce   sync.Once
	images      *ImageStats
	headingOnce sync.Once
	headings    *HeadingStats
	schemaOnce  sync.Once
	schema      *SchemaStats
}

// NewInput prepares check input for one audited page.
func NewInput(doc *page.Document, snap *fetch.Snapshot, keyword string) *Input {
	return &Input{
		Page:     doc,
		Snapshot: snap,
		Keyword:  strings.ToLower(strings.TrimSpace(keyword)),
	}
}

// Text returns the memoized text statistics for the page.
func (in *Input) Text() *TextStats {
	in.textOnce.Do(func() { in.text = buildTextStats(in) })
	return in.text
}

// Links returns the memoized link tallies for the page.
func (in *Input) Links() *LinkStats {
	in.linkOnce.Do(func() { in.links = buildLinkStats(in) })
	return in.links
}

// Images returns the memoized image tallies for the page.
func (in *Input) Images() *ImageStats {
	in.imageOnce.Do(func() { in.images = buildImageStats(in) })
	return in.images
}

// Headings returns the memoized heading statistics for the page.
func (in *Input) Headings() *HeadingStats {
	in.headingOnce.Do(func() { in.headings = buildHeadingStats(in) })
	return in.headings
}

// Schema returns the memoized structured-data findings for the page.
func (in *Input) Schema() *SchemaStats {
	in.schemaOnce.Do(func() { in.schema = buildSchemaStats(in) })
	return in.schema
}

var (
	registryOnce sync.Once
	registry     []Spec
)

// Registry returns the full check table in evaluation order. The table is
// assembled once; callers receive a copy.
func Registry() []Spec {
	registryOnce.Do(func() {
		registry = append(registry, metaChecks()...)
		registry = append(registry, headingChecks()...)
		registry = append(registry, imageChecks()...)
		registry = append(registry, linkChecks()...)
		registry = append(registry, technicalChecks()...)
		registry = append(registry, contentChecks()...)
		registry = append(registry, mobileChecks()...)
		registry = append(registry, socialChecks()...)
		registry = append(registry, schemaChecks()...)
	})
	out := make([]Spec, len(registry))
	copy(out, registry)
	return out
}

// EvaluateAll runs every registered check against the input. A check that
// cannot evaluate is a registry bug: it aborts the audit with a
// *errors.CheckError naming the check rather than being silently dropped.
func EvaluateAll(in *Input) ([]Evaluation, error) {
	specs := Registry()
	evals := make([]Evaluation, 0, len(specs))
	for _, spec := range specs {
		res, err := safeEval(spec, in)
		if err != nil {
			return nil, err
		}
		evals = append(evals, Evaluation{Spec: spec, Result: res})
	}
	return evals, nil
}

func safeEval(spec Spec, in *Input) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &apperrors.CheckError{
				Check: spec.Name,
				URL:   in.Snapshot.URL,
				Err:   fmt.Errorf("%v", r),
			}
		}
	}()
	res = spec.Eval(in)
	return res, nil
}

// Validate enforces the registry invariants: unique names, known categories,
// sane severities, and an evaluator on every entry. A violation is a
// *errors.ConfigError, fatal at startup.
func Validate() error {
	known := make(map[Category]bool, len(Categories()))
	for _, c := range Categories() {
		known[c] = true
	}

	seen := make(map[string]bool)
	for _, spec := range Registry() {
		if spec.Name == "" {
			return &apperrors.ConfigError{Reason: "check with empty name"}
		}
		if seen[spec.Name] {
			return &apperrors.ConfigError{Reason: fmt.Sprintf("duplicate check name %q", spec.Name)}
		}
		seen[spec.Name] = true

		if !known[spec.Category] {
			return &apperrors.ConfigError{Reason: fmt.Sprintf("check %q references unknown category %q", spec.Name, spec.Category)}
		}
		if spec.Eval == nil {
			return &apperrors.ConfigError{Reason: fmt.Sprintf("check %q has no evaluator", spec.Name)}
		}
		if spec.Points < 0 {
			return &apperrors.ConfigError{Reason: fmt.Sprintf("check %q has negative points", spec.Name)}
		}
		switch spec.Severity {
		case SeverityCritical, SeverityWarning, SeverityRecommendation:
		case SeverityOK:
			if spec.Points > 0 {
				return &apperrors.ConfigError{Reason: fmt.Sprintf("scored check %q must declare a failure severity", spec.Name)}
			}
		default:
			return &apperrors.ConfigError{Reason: fmt.Sprintf("check %q has unknown severity %q", spec.Name, spec.Severity)}
		}
	}
	return nil
}

// Result constructors keep the check tables terse.

func pass(value any) Result { return Result{Value: value, Credit: 1} }

func passNote(value any, note string) Result { return Result{Value: value, Credit: 1, Good: note} }

func fail(value any, issue string) Result { return Result{Value: value, Issue: issue} }

func partial(value any, credit float64, issue string) Result {
	return Result{Value: value, Credit: credit, Issue: issue}
}

func info(value any) Result { return Result{Value: value, Credit: 1} }

func skip(value any) Result { return Result{Value: value, Skipped: true} }
