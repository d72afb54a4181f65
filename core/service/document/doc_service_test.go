package document

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"document_server/core/domain"
	"document_server/core/port/in"
	"document_server/core/service/classification"
	"document_server/pkg/apperr"

	"github.com/google/uuid"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64, contentType string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeExtractor) Supports(contentType string) bool {
	return contentType == "application/pdf" || contentType == "text/plain"
}

type fakeRepo struct {
	saved   []*domain.Document
	saveErr error
}

func (f *fakeRepo) Save(ctx context.Context, doc *domain.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, doc)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	for _, doc := range f.saved {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	return f.saved, nil
}

func (f *fakeRepo) Count(ctx context.Context) (int, error) {
	return len(f.saved), nil
}

type fakeArchive struct {
	texts    map[uuid.UUID]string
	storeErr error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{texts: make(map[uuid.UUID]string)}
}

func (f *fakeArchive) Store(ctx context.Context, id uuid.UUID, text string) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.texts[id] = text
	return nil
}

func (f *fakeArchive) Fetch(ctx context.Context, id uuid.UUID) (string, error) {
	return f.texts[id], nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func newTestService(t *testing.T, ext *fakeExtractor, repo *fakeRepo, archive *fakeArchive, cache *fakeCache) *Service {
	t.Helper()
	table, err := classification.NewDefaultRuleTable()
	if err != nil {
		t.Fatalf("failed to build rule table: %v", err)
	}

	svc := NewService(
		classification.NewClassifier(table),
		ext,
		repo,
		archive,
		cache,
		time.Minute,
	)
	return svc
}

func pdfUpload(expected domain.DocumentType) in.Upload {
	return in.Upload{
		FileName:     "doc.pdf",
		ContentType:  "application/pdf",
		Content:      []byte("%PDF-1.4 fake"),
		ExpectedType: expected,
	}
}

// =============================================================================
// Tests
// =============================================================================

func TestSubmitDocument(t *testing.T) {
	ext := &fakeExtractor{text: "This is an offer letter for the job offer position."}
	repo := &fakeRepo{}
	archive := newFakeArchive()
	cache := newFakeCache()
	svc := newTestService(t, ext, repo, archive, cache)

	processed, err := svc.SubmitDocument(context.Background(), pdfUpload(""))
	if err != nil {
		t.Fatalf("SubmitDocument() error = %v", err)
	}

	if processed.Result.DocumentType != domain.TypeOfferLetter {
		t.Errorf("DocumentType = %q, want %q", processed.Result.DocumentType, domain.TypeOfferLetter)
	}
	if processed.Result.Confidence != 66 {
		t.Errorf("Confidence = %d, want 66", processed.Result.Confidence)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d documents, want 1", len(repo.saved))
	}
	if repo.saved[0].ContentHash != processed.Hash {
		t.Errorf("persisted hash %q != result hash %q", repo.saved[0].ContentHash, processed.Hash)
	}
	if archive.texts[processed.DocumentID] != ext.text {
		t.Errorf("archived text = %q, want extractor output", archive.texts[processed.DocumentID])
	}
	if len(cache.entries) != 1 {
		t.Errorf("cache has %d entries, want 1", len(cache.entries))
	}
}

func TestSubmitDocumentCacheHit(t *testing.T) {
	ext := &fakeExtractor{text: "internship report and work summary"}
	repo := &fakeRepo{}
	cache := newFakeCache()
	svc := newTestService(t, ext, repo, newFakeArchive(), cache)

	first, err := svc.SubmitDocument(context.Background(), pdfUpload(""))
	if err != nil {
		t.Fatalf("first SubmitDocument() error = %v", err)
	}

	second, err := svc.SubmitDocument(context.Background(), pdfUpload(""))
	if err != nil {
		t.Fatalf("second SubmitDocument() error = %v", err)
	}

	if ext.calls != 1 {
		t.Errorf("extractor called %d times, want 1", ext.calls)
	}
	if !second.Cached {
		t.Error("second result not marked cached")
	}
	if second.DocumentID != first.DocumentID {
		t.Errorf("cached DocumentID = %s, want %s", second.DocumentID, first.DocumentID)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved %d documents, want 1", len(repo.saved))
	}
}

func TestSubmitDocumentExpectedTypeKeyedCache(t *testing.T) {
	ext := &fakeExtractor{text: "student feedback on the internship experience"}
	cache := newFakeCache()
	svc := newTestService(t, ext, &fakeRepo{}, newFakeArchive(), cache)

	if _, err := svc.SubmitDocument(context.Background(), pdfUpload("")); err != nil {
		t.Fatalf("SubmitDocument() error = %v", err)
	}
	if _, err := svc.SubmitDocument(context.Background(), pdfUpload(domain.TypeStudentFeedback)); err != nil {
		t.Fatalf("SubmitDocument() with expectation error = %v", err)
	}

	// Different expectations must not share a cache entry.
	if len(cache.entries) != 2 {
		t.Errorf("cache has %d entries, want 2", len(cache.entries))
	}
	if ext.calls != 2 {
		t.Errorf("extractor called %d times, want 2", ext.calls)
	}
}

func TestSubmitDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		upload   in.Upload
		ext      *fakeExtractor
		repo     *fakeRepo
		wantCode string
	}{
		{
			name:     "empty content",
			upload:   in.Upload{FileName: "doc.pdf", ContentType: "application/pdf"},
			ext:      &fakeExtractor{},
			repo:     &fakeRepo{},
			wantCode: apperr.CodeBadRequest,
		},
		{
			name: "unrecognized expected type",
			upload: in.Upload{
				FileName:     "doc.pdf",
				ContentType:  "application/pdf",
				Content:      []byte("x"),
				ExpectedType: "passport",
			},
			ext:      &fakeExtractor{},
			repo:     &fakeRepo{},
			wantCode: apperr.CodeInvalidInput,
		},
		{
			name: "unsupported content type",
			upload: in.Upload{
				FileName:    "doc.png",
				ContentType: "image/png",
				Content:     []byte("x"),
			},
			ext:      &fakeExtractor{},
			repo:     &fakeRepo{},
			wantCode: apperr.CodeUnsupportedMedia,
		},
		{
			name:     "extraction failure",
			upload:   pdfUpload(""),
			ext:      &fakeExtractor{err: errors.New("malformed pdf")},
			repo:     &fakeRepo{},
			wantCode: apperr.CodeExtractionFailed,
		},
		{
			name:     "persistence failure",
			upload:   pdfUpload(""),
			ext:      &fakeExtractor{text: "offer letter"},
			repo:     &fakeRepo{saveErr: errors.New("connection refused")},
			wantCode: apperr.CodeDatabaseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.ext, tt.repo, newFakeArchive(), newFakeCache())

			_, err := svc.SubmitDocument(context.Background(), tt.upload)
			if err == nil {
				t.Fatal("SubmitDocument() error = nil, want error")
			}

			appErr := apperr.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("error code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestSubmitDocumentEmptyTextIsUnknown(t *testing.T) {
	ext := &fakeExtractor{text: ""}
	repo := &fakeRepo{}
	archive := newFakeArchive()
	svc := newTestService(t, ext, repo, archive, newFakeCache())

	processed, err := svc.SubmitDocument(context.Background(), pdfUpload(""))
	if err != nil {
		t.Fatalf("SubmitDocument() error = %v", err)
	}

	if processed.Result.DocumentType != domain.TypeUnknown {
		t.Errorf("DocumentType = %q, want %q", processed.Result.DocumentType, domain.TypeUnknown)
	}
	if processed.Result.Confidence != 0 {
		t.Errorf("Confidence = %d, want 0", processed.Result.Confidence)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved %d documents, want 1 (unknown is a valid outcome)", len(repo.saved))
	}
	if len(archive.texts) != 0 {
		t.Errorf("archived %d texts, want 0 for empty extraction", len(archive.texts))
	}
}

func TestSubmitDocumentArchiveFailureIsNotFatal(t *testing.T) {
	ext := &fakeExtractor{text: "permission letter with approval"}
	archive := newFakeArchive()
	archive.storeErr = errors.New("mongo down")
	svc := newTestService(t, ext, &fakeRepo{}, archive, newFakeCache())

	processed, err := svc.SubmitDocument(context.Background(), pdfUpload(""))
	if err != nil {
		t.Fatalf("SubmitDocument() error = %v, want nil despite archive failure", err)
	}
	if processed.Result.DocumentType != domain.TypePermissionLetter {
		t.Errorf("DocumentType = %q, want %q", processed.Result.DocumentType, domain.TypePermissionLetter)
	}
}

func TestClassifyText(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{}, &fakeRepo{}, newFakeArchive(), newFakeCache())

	result, err := svc.ClassifyText(context.Background(), "offer letter and job offer", domain.TypeOfferLetter)
	if err != nil {
		t.Fatalf("ClassifyText() error = %v", err)
	}
	if result.DocumentType != domain.TypeOfferLetter {
		t.Errorf("DocumentType = %q, want %q", result.DocumentType, domain.TypeOfferLetter)
	}
	if !result.MatchesExpected {
		t.Error("MatchesExpected = false, want true")
	}

	if _, err := svc.ClassifyText(context.Background(), "anything", "diploma"); err == nil {
		t.Error("ClassifyText() with unrecognized expected type: error = nil, want error")
	}

	// Empty text is valid input, not an error.
	result, err = svc.ClassifyText(context.Background(), "", "")
	if err != nil {
		t.Fatalf("ClassifyText(\"\") error = %v", err)
	}
	if result.DocumentType != domain.TypeUnknown {
		t.Errorf("DocumentType = %q, want %q", result.DocumentType, domain.TypeUnknown)
	}
}

func TestGetDocument(t *testing.T) {
	ext := &fakeExtractor{text: "completion certificate"}
	repo := &fakeRepo{}
	archive := newFakeArchive()
	svc := newTestService(t, ext, repo, archive, newFakeCache())

	processed, err := svc.SubmitDocument(context.Background(), pdfUpload(""))
	if err != nil {
		t.Fatalf("SubmitDocument() error = %v", err)
	}

	doc, text, err := svc.GetDocument(context.Background(), processed.DocumentID)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if doc.DocumentType != domain.TypeCompletionCertificate {
		t.Errorf("DocumentType = %q, want %q", doc.DocumentType, domain.TypeCompletionCertificate)
	}
	if text != ext.text {
		t.Errorf("text = %q, want %q", text, ext.text)
	}

	_, _, err = svc.GetDocument(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("GetDocument() for missing id: error = nil, want error")
	}
	if appErr := apperr.AsAppError(err); appErr.Code != apperr.CodeNotFound {
		t.Errorf("error code = %s, want %s", appErr.Code, apperr.CodeNotFound)
	}
}
