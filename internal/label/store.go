package label

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// Project is the loaded project configuration the store operates against.
// Samples are immutable from the store's perspective; the store only ever
// reads them for stats and key resolution.
type Project struct {
	Name            string
	Description     string
	AnnotationsPath string
	DataPath        string
	Samples         []Sample
}

// Store resolves (sampleId, userId) pairs to object-storage keys and
// performs all annotation reads and writes. Reads fall back from the
// current per-user layout to the legacy flat layout; writes always use the
// current layout. The store holds no per-call state, so concurrent use is
// safe; concurrent saves for the same pair race at the storage layer and
// the last write wins.
type Store struct {
	blob       BlobClient
	logger     Logger
	clock      Clock
	idgen      IDGenerator
	httpClient *http.Client

	mu      sync.RWMutex
	project *Project
	keys    keyspace
}

// NewStore creates a Store with the provided dependencies. The store must
// be Initialized with a project before any other operation.
func NewStore(blob BlobClient, logger Logger, clock Clock, idgen IDGenerator) *Store {
	return &Store{
		blob:       blob,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
		httpClient: http.DefaultClient,
	}
}

// Initialize loads the project configuration that supplies the annotation
// and data paths. Calling any other operation first fails with
// ErrNotInitialized.
func (s *Store) Initialize(project *Project) error {
	if project == nil {
		return fmt.Errorf("initializing store: %w: project is nil", ErrInvalidInput)
	}
	annotationsPath := strings.Trim(project.AnnotationsPath, "/")
	if annotationsPath == "" {
		return fmt.Errorf("initializing store: %w: annotations path is empty", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = project
	s.keys = keyspace{annotationsPath: annotationsPath}

	s.logger.Info("annotation store initialized",
		"project", project.Name,
		"annotationsPath", annotationsPath,
		"samples", len(project.Samples))
	return nil
}

// snapshot returns the initialized project and keyspace, or
// ErrNotInitialized.
func (s *Store) snapshot() (*Project, keyspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return nil, keyspace{}, ErrNotInitialized
	}
	return s.project, s.keys, nil
}

// SaveAnnotation serializes the annotation and writes it to the
// current-layout key, overwriting any previous annotation for the same
// (sampleId, userId) pair. Missing ID and Timestamp fields are filled in.
// Legacy-layout objects for the pair are left untouched.
func (s *Store) SaveAnnotation(ctx context.Context, a *Annotation) error {
	_, keys, err := s.snapshot()
	if err != nil {
		return fmt.Errorf("saving annotation: %w", err)
	}

	sampleID, err := s.sanitizeKeyPart("sampleId", a.SampleID)
	if err != nil {
		return fmt.Errorf("saving annotation: sampleId: %w", err)
	}
	userID, err := s.sanitizeKeyPart("userId", a.UserID)
	if err != nil {
		return fmt.Errorf("saving annotation: userId: %w", err)
	}

	if a.ID == "" {
		a.ID = s.idgen.New()
	}
	if a.Timestamp == "" {
		a.Timestamp = s.clock.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding annotation %s: %w", a.ID, err)
	}

	key := keys.currentKey(sampleID, userID)
	if err := s.blob.Put(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("writing annotation at %s: %w", key, errors.Join(ErrStorageUnavailable, err))
	}

	s.logger.Debug("annotation saved", "key", key, "sampleId", a.SampleID, "userId", a.UserID)
	return nil
}

// GetAnnotation returns the annotation for the pair, checking the
// current-layout key first and falling back to the legacy-layout key.
// Returns (nil, nil) when neither key exists. A key that exists but does
// not decode fails with ErrCorruptData rather than reading as "not found".
func (s *Store) GetAnnotation(ctx context.Context, sampleID, userID string) (*Annotation, error) {
	_, keys, err := s.snapshot()
	if err != nil {
		return nil, fmt.Errorf("getting annotation: %w", err)
	}

	sanSample, err := s.sanitizeKeyPart("sampleId", sampleID)
	if err != nil {
		return nil, fmt.Errorf("getting annotation: sampleId: %w", err)
	}
	sanUser, err := s.sanitizeKeyPart("userId", userID)
	if err != nil {
		return nil, fmt.Errorf("getting annotation: userId: %w", err)
	}

	for _, key := range []string{keys.currentKey(sanSample, sanUser), keys.legacyKey(sanSample, sanUser)} {
		found, err := s.blob.Exists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("checking annotation at %s: %w", key, errors.Join(ErrStorageUnavailable, err))
		}
		if found {
			return s.fetchAnnotation(ctx, key)
		}
	}
	return nil, nil
}

// ListAnnotationsForSample returns all annotations for a sample, from both
// layouts and all users, unordered. The annotations prefix has to be
// scanned in full: per-user subdirectories make a narrower listing for
// "this sample across all users" impossible. Individual objects that fail
// to fetch or decode are logged and skipped, never allowed to abort the
// listing.
func (s *Store) ListAnnotationsForSample(ctx context.Context, sampleID string) ([]*Annotation, error) {
	_, keys, err := s.snapshot()
	if err != nil {
		return nil, fmt.Errorf("listing annotations: %w", err)
	}

	sanSample, err := s.sanitizeKeyPart("sampleId", sampleID)
	if err != nil {
		return nil, fmt.Errorf("listing annotations: sampleId: %w", err)
	}

	allKeys, err := s.blob.List(ctx, keys.prefix())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", keys.prefix(), errors.Join(ErrStorageUnavailable, err))
	}

	var annotations []*Annotation
	for _, key := range allKeys {
		loc, ok := keys.classify(key)
		if !ok || loc.SampleID != sanSample {
			continue
		}
		a, err := s.fetchAnnotation(ctx, key)
		if err != nil {
			s.logger.Warn("skipping unreadable annotation", "key", key, "layout", loc.Layout.String(), "error", err)
			continue
		}
		annotations = append(annotations, a)
	}
	return annotations, nil
}

// AnnotatedSampleIDs returns the deduplicated, sorted sample IDs the user
// has annotated under either layout. Used to decide what work remains for
// a user.
func (s *Store) AnnotatedSampleIDs(ctx context.Context, userID string) ([]string, error) {
	_, keys, err := s.snapshot()
	if err != nil {
		return nil, fmt.Errorf("listing annotated samples: %w", err)
	}

	sanUser, err := s.sanitizeKeyPart("userId", userID)
	if err != nil {
		return nil, fmt.Errorf("listing annotated samples: userId: %w", err)
	}

	seen := make(map[string]struct{})

	// Current layout: one scan of the user's own subdirectory.
	userKeys, err := s.blob.List(ctx, keys.userPrefix(sanUser))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", keys.userPrefix(sanUser), errors.Join(ErrStorageUnavailable, err))
	}
	for _, key := range userKeys {
		if loc, ok := keys.classify(key); ok && loc.Layout == LayoutCurrent && loc.UserID == sanUser {
			seen[loc.SampleID] = struct{}{}
		}
	}

	// Legacy layout: scan the flat files and keep those attributed to the
	// user by the text after the last underscore.
	allKeys, err := s.blob.List(ctx, keys.prefix())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", keys.prefix(), errors.Join(ErrStorageUnavailable, err))
	}
	for _, key := range allKeys {
		if loc, ok := keys.classify(key); ok && loc.Layout == LayoutLegacy && loc.UserID == sanUser {
			seen[loc.SampleID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ProjectStats reports total and annotated sample counts. A sample counts
// as annotated when at least one annotation exists for it from any user,
// under either layout.
func (s *Store) ProjectStats(ctx context.Context) (*ProjectStats, error) {
	project, keys, err := s.snapshot()
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}

	allKeys, err := s.blob.List(ctx, keys.prefix())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", keys.prefix(), errors.Join(ErrStorageUnavailable, err))
	}

	annotated := make(map[string]struct{})
	for _, key := range allKeys {
		if loc, ok := keys.classify(key); ok {
			annotated[loc.SampleID] = struct{}{}
		}
	}

	return &ProjectStats{
		TotalSamples:     len(project.Samples),
		AnnotatedSamples: len(annotated),
	}, nil
}

// FindSample returns the configured sample with the given ID, or nil.
func (s *Store) FindSample(id string) (*Sample, error) {
	project, _, err := s.snapshot()
	if err != nil {
		return nil, fmt.Errorf("finding sample: %w", err)
	}
	for i := range project.Samples {
		if project.Samples[i].ID == id {
			return &project.Samples[i], nil
		}
	}
	return nil, nil
}

// Samples returns the full configured sample list.
func (s *Store) Samples() ([]Sample, error) {
	project, _, err := s.snapshot()
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	return project.Samples, nil
}

// Describe returns the project name and description.
func (s *Store) Describe() (name, description string, err error) {
	project, _, err := s.snapshot()
	if err != nil {
		return "", "", fmt.Errorf("describing project: %w", err)
	}
	return project.Name, project.Description, nil
}

// SampleURL resolves the sample's content to a fetchable URL. Absolute
// http(s) file names pass through untouched; relative names resolve under
// the project data path and must exist (ErrSampleNotFound otherwise).
func (s *Store) SampleURL(ctx context.Context, sample *Sample) (string, error) {
	project, _, err := s.snapshot()
	if err != nil {
		return "", fmt.Errorf("resolving sample url: %w", err)
	}

	if isAbsoluteURL(sample.FileName) {
		return sample.FileName, nil
	}

	key := dataKey(project.DataPath, sample.FileName)
	found, err := s.blob.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("checking sample at %s: %w", key, errors.Join(ErrStorageUnavailable, err))
	}
	if !found {
		return "", fmt.Errorf("sample %s at %s: %w", sample.ID, key, ErrSampleNotFound)
	}

	url, err := s.blob.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolving url for %s: %w", key, errors.Join(ErrStorageUnavailable, err))
	}
	return url, nil
}

// SampleData fetches the sample's raw content and its content type.
// Absolute http(s) file names are fetched over HTTP; relative names are
// read from the blob store under the project data path.
func (s *Store) SampleData(ctx context.Context, sample *Sample) ([]byte, string, error) {
	project, _, err := s.snapshot()
	if err != nil {
		return nil, "", fmt.Errorf("fetching sample data: %w", err)
	}

	if isAbsoluteURL(sample.FileName) {
		return s.fetchExternal(ctx, sample)
	}

	key := dataKey(project.DataPath, sample.FileName)
	data, err := s.blob.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, "", fmt.Errorf("sample %s at %s: %w", sample.ID, key, ErrSampleNotFound)
		}
		return nil, "", fmt.Errorf("reading sample at %s: %w", key, errors.Join(ErrStorageUnavailable, err))
	}

	contentType := mime.TypeByExtension(path.Ext(sample.FileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// fetchExternal retrieves sample content hosted outside the blob store.
func (s *Store) fetchExternal(ctx context.Context, sample *Sample) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sample.FileName, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request for sample %s: %w", sample.ID, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching sample %s: %w", sample.ID, errors.Join(ErrStorageUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", fmt.Errorf("sample %s at %s: %w", sample.ID, sample.FileName, ErrSampleNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching sample %s: unexpected status %d: %w", sample.ID, resp.StatusCode, ErrStorageUnavailable)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading sample %s: %w", sample.ID, errors.Join(ErrStorageUnavailable, err))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// fetchAnnotation reads and decodes one annotation object.
func (s *Store) fetchAnnotation(ctx context.Context, key string) (*Annotation, error) {
	data, err := s.blob.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading annotation at %s: %w", key, errors.Join(ErrStorageUnavailable, err))
	}

	var a Annotation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding annotation at %s: %w", key, errors.Join(ErrCorruptData, err))
	}
	return &a, nil
}

// dataKey joins the project data path and a sample file name.
func dataKey(dataPath, fileName string) string {
	dataPath = strings.Trim(dataPath, "/")
	fileName = strings.TrimPrefix(fileName, "/")
	if dataPath == "" {
		return fileName
	}
	return dataPath + "/" + fileName
}

// isAbsoluteURL reports whether the file name already points outside the
// blob store.
func isAbsoluteURL(fileName string) bool {
	lower := strings.ToLower(fileName)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
