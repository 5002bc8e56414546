// Package report renders a feedback record as a printable PDF sheet.
package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/prompt"
)

const (
	Title = "FICHE REMONTÉE D'INFORMATION"

	margin     = 20.0
	lineHeight = 5.0
	logoWidth  = 40.0
	logoName   = "logo"
)

// DefaultFileName is offered when asking for the output name.
func DefaultFileName(f models.Feedback) string {
	return SanitizeFileName(fmt.Sprintf("Fiche_Remontee_%d_%s_%s", f.ID, f.Nom, f.Prenom))
}

// SanitizeFileName replaces path separators, characters reserved on common
// filesystems and control characters with '_'.
func SanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, name)
}

// FormatDate turns a YYYY-MM-DD date into dd/mm/yyyy. Anything else is
// returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// Exporter builds the PDF and writes it under the name the user picks.
type Exporter struct {
	logo     LogoSource
	prompter prompt.Prompter
	logger   *zap.Logger
	compress bool
}

// NewExporter returns an Exporter. logo may be nil, in which case sheets
// carry no logo.
func NewExporter(logo LogoSource, prompter prompt.Prompter, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logo: logo, prompter: prompter, logger: logger, compress: true}
}

// Export asks for a file name (DefaultFileName as default) and writes the
// sheet to dir. A cancelled or blank answer returns apperrors.ErrCancelled
// and writes nothing.
func (e *Exporter) Export(ctx context.Context, f models.Feedback, dir string) (string, error) {
	name, ok, err := e.prompter.Prompt("Nom du fichier (sans extension)", DefaultFileName(f))
	if err != nil {
		return "", fmt.Errorf("prompt file name: %w", err)
	}
	name = SanitizeFileName(strings.TrimSpace(name))
	if !ok || name == "" {
		return "", apperrors.ErrCancelled
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		name += ".pdf"
	}

	var buf bytes.Buffer
	if err := e.Render(ctx, f, &buf); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	e.logger.Info("Fiche exportée", zap.Int("feedback_id", f.ID), zap.String("path", path))
	return path, nil
}

// Render writes the sheet for f to w. A logo that cannot be loaded is
// logged and left out.
func (e *Exporter) Render(ctx context.Context, f models.Feedback, w io.Writer) error {
	pdf := e.build(ctx, f)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func (e *Exporter) build(ctx context.Context, f models.Feedback) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCompression(e.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(f.CreatedAt)
	pdf.SetTitle(Title, true)
	pdf.AddPage()

	s := &sheet{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: margin}
	s.pageW, s.pageH = pdf.GetPageSize()

	s.header(f)
	s.requester(f)
	s.problem(f)
	s.admin(f)

	if e.logo != nil {
		if err := s.logo(ctx, e.logo); err != nil {
			e.logger.Warn("Logo non chargé, fiche générée sans logo",
				zap.Int("feedback_id", f.ID), zap.Error(err))
		}
	}
	return pdf
}

// sheet tracks the vertical cursor while laying out one record.
type sheet struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	y            float64
	pageW, pageH float64
}

func (s *sheet) text(x float64, txt string) {
	s.pdf.Text(x, s.y, s.tr(txt))
}

// ensure starts a new page when h more millimetres would cross the bottom
// margin.
func (s *sheet) ensure(h float64) {
	if s.y+h > s.pageH-margin {
		s.pdf.AddPage()
		s.y = margin
	}
}

func (s *sheet) header(f models.Feedback) {
	s.pdf.SetFont("Helvetica", "B", 22)
	s.pdf.SetTextColor(255, 128, 0)
	title := s.tr(Title)
	s.pdf.Text((s.pageW-s.pdf.GetStringWidth(title))/2, s.y, title)
	s.y += 15

	s.pdf.SetFont("Helvetica", "", 10)
	s.pdf.SetTextColor(100, 100, 100)
	s.text(margin, fmt.Sprintf("Réf: #%d", f.ID))
	s.text(s.pageW-margin-30, "Date: "+FormatDate(f.Date))
	s.y += 15
}

func (s *sheet) section(title string) {
	s.ensure(20)
	s.pdf.SetFillColor(240, 240, 240)
	s.pdf.Rect(margin, s.y, s.pageW-2*margin, 10, "F")
	s.pdf.SetFont("Helvetica", "B", 12)
	s.pdf.SetTextColor(0, 0, 0)
	s.pdf.Text(margin+5, s.y+7, s.tr(title))
	s.y += 20
	s.pdf.SetFontSize(10)
}

func (s *sheet) field(label, value string) {
	s.ensure(10)
	s.pdf.SetFont("Helvetica", "B", 10)
	s.text(margin, label)
	s.pdf.SetFont("Helvetica", "", 10)
	s.text(margin+40, value)
	s.y += 10
}

// paragraph writes a bold label then value wrapped to the printable width.
func (s *sheet) paragraph(label, value string, after float64) {
	s.ensure(7 + lineHeight)
	s.pdf.SetFont("Helvetica", "B", 10)
	s.text(margin, label)
	s.y += 7

	s.pdf.SetFont("Helvetica", "", 10)
	for _, line := range s.pdf.SplitText(s.tr(value), s.pageW-2*margin) {
		s.ensure(lineHeight)
		s.pdf.Text(margin, s.y, line)
		s.y += lineHeight
	}
	s.y += after
}

func (s *sheet) requester(f models.Feedback) {
	s.section("DEMANDEUR")
	s.pdf.SetFont("Helvetica", "", 10)
	s.text(margin, "Nom: "+strings.ToUpper(f.Nom))
	s.text(margin+80, "Prénom: "+f.Prenom)
	s.y += 10
	s.text(margin, "Société: "+f.SocieteAgence)
	if f.LieuClient != "" {
		s.text(margin+80, "Lieu: "+f.LieuClient)
	}
	s.y += 15
}

func (s *sheet) problem(f models.Feedback) {
	s.section("DÉTAILS DU PROBLÈME")
	s.field("Type:", f.TypeProbleme)
	if f.Description != "" {
		s.paragraph("Description:", f.Description, 5)
	}
	if f.Action != "" {
		s.paragraph("Action entreprise/suggérée:", f.Action, 5)
	}
	s.y += 10
}

func (s *sheet) admin(f models.Feedback) {
	s.section("TRAITEMENT ADMIN")
	s.field("Statut final:", string(f.Status))
	if f.ActionAdmin != "" {
		s.paragraph("Action réalisée par l'admin:", f.ActionAdmin, 15)
	} else {
		s.y += 20
	}
}

var imageTypes = map[string]string{"png": "PNG", "jpeg": "JPG", "gif": "GIF"}

// logo appends the logo centered, 40 mm wide, on a new page if it does not
// fit. Any failure is an ImageLoad error and leaves the document untouched.
func (s *sheet) logo(ctx context.Context, src LogoSource) error {
	data, err := src.Load(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorCodeImageLoad, "Logo indisponible", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorCodeImageLoad, "Logo illisible", err)
	}
	imageType, ok := imageTypes[format]
	if !ok || cfg.Width == 0 || cfg.Height == 0 {
		return apperrors.Newf(apperrors.ErrorCodeImageLoad, "Format de logo non pris en charge: %s", format)
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	s.pdf.RegisterImageOptionsReader(logoName, opts, bytes.NewReader(data))
	if err := s.pdf.Error(); err != nil {
		s.pdf.ClearError()
		return apperrors.Wrap(apperrors.ErrorCodeImageLoad, "Logo illisible", err)
	}

	h := float64(cfg.Height) * logoWidth / float64(cfg.Width)
	s.ensure(h)
	s.pdf.ImageOptions(logoName, (s.pageW-logoWidth)/2, s.y, logoWidth, h, false, opts, 0, "")
	s.y += h
	return nil
}
