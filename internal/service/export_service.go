package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/learnlingo/learnlingo-api/internal/models"
	appErrors "github.com/learnlingo/learnlingo-api/pkg/errors"
	"github.com/learnlingo/learnlingo-api/pkg/export"
)

// ExportFormat identifies a supported directory export encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes plus HTTP delivery metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

type exportTeacherSource interface {
	FetchAll(ctx context.Context) ([]models.Teacher, error)
}

// ExportService renders the teacher directory as a downloadable file.
type ExportService struct {
	teachers exportTeacherSource
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(teachers exportTeacherSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		teachers: teachers,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Export renders the full directory, optionally narrowed by filter, in the
// requested format.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, filter models.TeacherFilter) (*ExportResult, error) {
	teachers, err := s.teachers.FetchAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	if !filter.Empty() {
		filtered := make([]models.Teacher, 0, len(teachers))
		for _, t := range teachers {
			if filter.Matches(t) {
				filtered = append(filtered, t)
			}
		}
		teachers = filtered
	}

	dataset := buildDirectoryDataset(teachers)
	stamp := time.Now().UTC().Format("2006-01-02")

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("teachers-%s.csv", stamp),
		}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Teacher Directory")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("teachers-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format: %s", format))
	}
}

func buildDirectoryDataset(teachers []models.Teacher) export.Dataset {
	headers := []string{"Name", "Languages", "Levels", "Rating", "Reviews", "Price Per Hour", "Lessons Done"}
	rows := make([]map[string]string, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, map[string]string{
			"Name":           strings.TrimSpace(t.Name + " " + t.Surname),
			"Languages":      strings.Join(t.Languages, ", "),
			"Levels":         strings.Join(t.Levels, ", "),
			"Rating":         strconv.FormatFloat(t.Rating, 'f', 1, 64),
			"Reviews":        strconv.Itoa(len(t.Reviews)),
			"Price Per Hour": strconv.FormatFloat(t.PricePerHour, 'f', 0, 64),
			"Lessons Done":   strconv.Itoa(t.LessonsDone),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
