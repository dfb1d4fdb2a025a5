package specsql

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/ukaji3/specsql-go/pkg/specsql/extract"
	"github.com/ukaji3/specsql-go/pkg/specsql/models"
	"github.com/ukaji3/specsql-go/pkg/specsql/parser"
	"github.com/xuri/excelize/v2"
)

// Result is the output of one generation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`
	// Statements are the INSERT statements: the project first, then one group per document sheet.
	Statements []string `json:"statements"`
	// Sheets is the number of document sheets processed.
	Sheets int `json:"sheets"`
	// Warnings lists the columns that could not be read and fell back to ''.
	Warnings []models.Warning `json:"warnings,omitempty"`
}

// Generate reads the workbook at path and renders its INSERT statements
// using rules as the column-rule table.
func Generate(path string, rules models.TableInfo, opts Options) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	return GenerateWorkbook(f, rules, opts)
}

type document struct {
	sheet    *parser.Sheet
	category *extract.Category
}

// GenerateWorkbook renders the INSERT statements of an open workbook.
func GenerateWorkbook(f *excelize.File, rules models.TableInfo, opts Options) (*Result, error) {
	runID := uuid.NewString()
	logger := opts.logger().With("run_id", runID)
	systemID, systemDate := opts.Tokens()

	catalog := extract.DefaultCatalog(opts.MappingOverrides)
	x := extract.NewExtractor(catalog, rules)
	ec := extract.NewExtractionContext(systemID, systemDate, logger)

	col, row, err := parser.SplitCellName(opts.categoryCell())
	if err != nil {
		return nil, fmt.Errorf("category cell: %w", err)
	}

	var (
		first *parser.Sheet
		docs  []document
	)
	for i, name := range f.GetSheetList() {
		if opts.ShouldSkipSheet(i, name) {
			continue
		}
		sheet, err := parser.OpenSheet(f, name)
		if err != nil {
			return nil, NewExtractionError(name, "sheet", err)
		}
		if first == nil {
			first = sheet
		}
		cat, ok := catalog.Category(sheet.Text(col, row))
		if !ok {
			logger.Debug("skipping sheet without document category", "sheet", name)
			continue
		}
		docs = append(docs, document{sheet: sheet, category: cat})
	}

	result := &Result{RunID: runID}
	if first == nil {
		logger.Warn("workbook has no sheets to process", "start_sheet", opts.StartSheet)
		return result, nil
	}

	projectSheet := first
	if len(docs) > 0 {
		projectSheet = docs[0].sheet
	}
	stmt, err := x.Project(ec, projectSheet)
	if err != nil {
		return nil, NewExtractionError(projectSheet.Name(), "project", err)
	}
	result.Statements = append(result.Statements, stmt)

	for _, doc := range docs {
		stmts, err := x.Sheet(ec, doc.sheet, doc.category)
		if err != nil {
			return nil, NewExtractionError(doc.sheet.Name(), doc.category.Name, err)
		}
		result.Statements = append(result.Statements, stmts...)
	}

	result.Sheets = len(docs)
	result.Warnings = ec.Warnings
	logger.Info("generation complete",
		"sheets", result.Sheets,
		"statements", len(result.Statements),
		"warnings", len(result.Warnings),
	)
	return result, nil
}
