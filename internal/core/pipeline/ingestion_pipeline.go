package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"noticeflow/internal/core"
	"noticeflow/internal/core/analysis"
	"noticeflow/internal/models"
)

// pdfMagic is the header every well-formed PDF starts with.
var pdfMagic = []byte("%PDF-")

// Pipeline orchestrates one upload end to end: extract, summarize and
// detect departments, persist, then schedule notifications. The insert is
// the commit point; any stage failure before it leaves no trace.
type Pipeline struct {
	store     core.DocumentStore
	extractor core.TextExtractor
	analyzer  *analysis.Analyzer
	notifier  core.Notifier
	log       zerolog.Logger
}

func NewPipeline(store core.DocumentStore, extractor core.TextExtractor, analyzer *analysis.Analyzer, notifier core.Notifier, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		notifier:  notifier,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Process drives the full ingestion pipeline for one uploaded file. The
// caller is suspended until the record is persisted; notification delivery
// is detached and never delays or fails the result.
func (p *Pipeline) Process(ctx context.Context, data []byte, filename string) (*models.SummaryResponse, error) {
	if err := validateUpload(data, filename); err != nil {
		return nil, err
	}

	text, err := p.extractor.ExtractText(ctx, data, "application/pdf")
	if err != nil {
		return nil, core.NewFailure(core.KindExtractionFailed, "extract text", err)
	}

	// Summarization and department detection only depend on the extracted
	// text, so they run concurrently; both must succeed before persisting.
	var (
		summary     string
		departments []models.Department
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.analyzer.Summarize(gctx, text)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	g.Go(func() error {
		d, err := p.analyzer.DetectDepartments(gctx, text)
		if err != nil {
			return err
		}
		departments = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := &models.Document{
		Filename:      filename,
		ExtractedText: text,
		Summary:       summary,
		Departments:   departments,
	}
	id, err := p.store.InsertDocument(ctx, doc)
	if err != nil {
		if core.KindOf(err) == "" {
			err = core.NewFailure(core.KindStorageFailed, "persist document", err)
		}
		return nil, err
	}

	p.scheduleNotifications(id, filename, summary, departments)

	return &models.SummaryResponse{
		Filename:    filename,
		Departments: departments,
		Summary:     summary,
		MongoID:     id,
	}, nil
}

// scheduleNotifications hands one notification per contactable department
// to the dispatcher. Queue pressure is logged and otherwise ignored.
func (p *Pipeline) scheduleNotifications(docID, filename, summary string, departments []models.Department) {
	for _, dept := range departments {
		if dept.Email == nil {
			continue
		}
		n := models.Notification{
			AttemptID:  uuid.NewString(),
			Department: dept.Name,
			Email:      *dept.Email,
			Subject:    fmt.Sprintf("Notice Summary for %s: %s", dept.Name, filename),
			Summary:    summary,
		}
		if !p.notifier.Enqueue(n) {
			p.log.Warn().
				Str("doc_id", docID).
				Str("attempt_id", n.AttemptID).
				Str("department", n.Department).
				Msg("notification queue full, dropping")
		}
	}
}

func validateUpload(data []byte, filename string) error {
	if len(data) == 0 {
		return core.NewFailure(core.KindInvalidInput, "empty file body", nil)
	}
	if strings.TrimSpace(filename) == "" {
		return core.NewFailure(core.KindInvalidInput, "missing filename", nil)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return core.NewFailure(core.KindInvalidInput, "only PDF files are allowed", nil)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return core.NewFailure(core.KindInvalidInput, "file is not a valid PDF", nil)
	}
	return nil
}
