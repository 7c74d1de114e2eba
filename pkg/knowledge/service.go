package knowledge

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/realtyaura/aura/pkg/domain"
	"github.com/realtyaura/aura/pkg/logger"
	"github.com/realtyaura/aura/pkg/metrics"
	"github.com/realtyaura/aura/pkg/models"
	"github.com/realtyaura/aura/pkg/phone"
	"github.com/realtyaura/aura/pkg/store"
)

const (
	previewLength = 200
	contextItems  = 3

	// NoContext is returned by RelevantContext when nothing matches
	NoContext = "No relevant documents found in knowledge base."
)

var contactsHeader = []string{"name", "email", "phone", "lead_status"}

// IngestResult describes what a file turned into
type IngestResult struct {
	SourceFile       string `json:"source_file"`
	Kind             string `json:"kind"` // document, contacts
	DocumentID       int64  `json:"document_id,omitempty"`
	ContactsImported int    `json:"contacts_imported,omitempty"`
}

// SearchResult is a matching document with a short content preview
type SearchResult struct {
	ID             int64          `json:"id"`
	ContentType    string         `json:"content_type"`
	Title          string         `json:"title"`
	ContentPreview string         `json:"content_preview"`
	SourceFile     string         `json:"source_file"`
	Metadata       map[string]any `json:"metadata"`
	Tags           []string       `json:"tags"`
	CreatedDate    string         `json:"created_date"`
}

// Service manages the document knowledge base
type Service struct {
	store   *store.Store
	dir     string
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewService creates a knowledge service storing uploads in dir
func NewService(st *store.Store, dir string, log logger.Logger) *Service {
	return &Service{store: st, dir: dir, logger: log}
}

// WithMetrics counts stored documents on m
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// Dir is the directory uploads are written to
func (s *Service) Dir() string {
	return s.dir
}

// Upload saves r under dir as filename and ingests it
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (*IngestResult, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." || strings.HasPrefix(name, ".") {
		return nil, domain.NewValidationError("a file name is required")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	return s.IngestFile(ctx, path)
}

// IngestFile adds a file to the knowledge base. A CSV whose header is
// name,email,phone,lead_status is imported as contacts instead.
func (s *Service) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	name := filepath.Base(path)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")

	if ext == "csv" {
		n, ok, err := s.importContacts(ctx, path, name)
		if err != nil {
			return nil, err
		}
		if ok {
			return &IngestResult{SourceFile: name, Kind: "contacts", ContactsImported: n}, nil
		}
	}

	content, err := extractContent(path, ext)
	if err != nil {
		s.logger.Error("failed to extract content", "file", name, "error", err)
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if strings.TrimSpace(content) == "" {
		s.logger.Warn("no content extracted", "file", name)
		return nil, domain.NewValidationError(fmt.Sprintf("no content extracted from %s", name))
	}

	units, err := s.store.PropertyUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load property units: %w", err)
	}

	doc := &models.KnowledgeDocument{
		ContentType: ContentType(ext),
		Title:       name,
		Content:     content,
		SourceFile:  name,
		Metadata:    Metadata(content, name, units, s.store.Now()),
	}
	if err := s.store.UpsertDocument(ctx, doc); err != nil {
		return nil, err
	}
	s.metrics.RecordDocumentStored()
	s.logger.Info("document added to knowledge base", "file", name, "id", doc.ID, "type", doc.ContentType)

	return &IngestResult{SourceFile: name, Kind: "document", DocumentID: doc.ID}, nil
}

// IngestDir ingests every regular file directly under dir
func (s *Service) IngestDir(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := s.IngestFile(ctx, filepath.Join(s.dir, e.Name())); err != nil {
			s.logger.Warn("skipping file", "file", e.Name(), "error", err)
			continue
		}
		n++
	}
	return n, nil
}

func (s *Service) importContacts(ctx context.Context, path, name string) (int, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if !isContactsHeader(header) {
		s.logger.Debug("csv is not a contacts file, storing as document", "file", name)
		return 0, false, nil
	}

	var contacts []models.Contact
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, true, domain.NewValidationError(fmt.Sprintf("malformed CSV row in %s: %v", name, err))
		}
		if len(row) < len(contactsHeader) || strings.TrimSpace(row[0]) == "" {
			continue
		}
		contacts = append(contacts, models.Contact{
			Name:       strings.TrimSpace(row[0]),
			Email:      strings.TrimSpace(row[1]),
			Phone:      phone.NormalizeOrKeep(row[2]),
			LeadStatus: row[3],
			Source:     name,
		})
	}

	n, err := s.store.ImportContacts(ctx, contacts)
	if err != nil {
		return 0, true, fmt.Errorf("failed to import contacts from %s: %w", name, err)
	}
	s.logger.Info("contacts imported", "file", name, "count", n)
	return n, true, nil
}

func isContactsHeader(header []string) bool {
	if len(header) != len(contactsHeader) {
		return false
	}
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) != contactsHeader[i] {
			return false
		}
	}
	return true
}

func extractContent(path, ext string) (string, error) {
	switch ext {
	case "pdf":
		return "PDF file uploaded: " + filepath.Base(path), nil
	case "doc", "docx":
		return "Word document uploaded: " + filepath.Base(path), nil
	case "xls":
		return "Excel file uploaded: " + filepath.Base(path), nil
	case "xlsx":
		return spreadsheetText(path)
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.ToValidUTF8(string(raw), ""), nil
	}
}

func spreadsheetText(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "Sheet: %s\n", sheet)
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Get returns one document
func (s *Service) Get(ctx context.Context, id int64) (*models.KnowledgeDocument, error) {
	return s.store.GetDocument(ctx, id)
}

// Search returns documents containing every word of query, newest first
func (s *Service) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	docs, err := s.store.SearchDocuments(ctx, strings.Fields(strings.ToLower(query)), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}

	out := make([]SearchResult, 0, len(docs))
	for _, d := range docs {
		meta := d.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		out = append(out, SearchResult{
			ID:             d.ID,
			ContentType:    d.ContentType,
			Title:          d.Title,
			ContentPreview: preview(d.Content),
			SourceFile:     d.SourceFile,
			Metadata:       meta,
			Tags:           d.Tags,
			CreatedDate:    d.CreatedDate,
		})
	}
	return out, nil
}

func preview(content string) string {
	r := []rune(content)
	if len(r) <= previewLength {
		return content
	}
	return string(r[:previewLength]) + "..."
}

// RelevantContext summarizes the documents matching query for a language
// model prompt.
func (s *Service) RelevantContext(ctx context.Context, query string) (string, error) {
	items, err := s.Search(ctx, query, contextItems)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return NoContext, nil
	}

	var b strings.Builder
	b.WriteString("Relevant information from knowledge base:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "Document: %s\n", item.Title)
		fmt.Fprintf(&b, "Content: %s\n", item.ContentPreview)
		if props := mentionedProperties(item.Metadata); len(props) > 0 {
			labels := make([]string, len(props))
			for i, p := range props {
				labels[i] = p.Label()
			}
			fmt.Fprintf(&b, "Properties mentioned: %s\n", strings.Join(labels, ", "))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func mentionedProperties(meta map[string]any) []PropertyRef {
	raw, ok := meta["properties_mentioned"]
	if !ok {
		return nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var refs []PropertyRef
	if err := json.Unmarshal(buf, &refs); err != nil {
		return nil
	}
	return refs
}

// Statistics summarizes the knowledge base
func (s *Service) Statistics(ctx context.Context) (*store.KnowledgeStats, error) {
	return s.store.KnowledgeStatistics(ctx)
}

// UpdateTags replaces the tags of a document
func (s *Service) UpdateTags(ctx context.Context, id int64, tags []string) error {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, ",", " "))
		if t != "" {
			clean = append(clean, t)
		}
	}
	return s.store.UpdateTags(ctx, id, clean)
}
