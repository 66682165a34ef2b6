package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
)

// The tree-walking operations touch the repositories many times per call,
// so the tests run against small in-memory implementations instead of
// call-sequence mocks.

type fakeFolderRepo struct {
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, ownerID string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFolderRepo) GetByNameAndParent(_ context.Context, ownerID, name string, parentID *string) (*models.Folder, error) {
	for _, f := range r.folders {
		if f.OwnerID == ownerID && f.Name == name && ptrEq(f.ParentID, parentID) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) UpdatePath(_ context.Context, id, ownerID, path string) error {
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	f.Path = path
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, ownerID string) error {
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID *string, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID && ptrEq(f.ParentID, parentID) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeFolderRepo) CountChildren(ctx context.Context, parentID *string, ownerID string) (int, error) {
	children, _ := r.ListChildren(ctx, parentID, ownerID)
	return len(children), nil
}

type fakeDocRepo struct {
	docs map[string]*models.Document
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocRepo) Create(_ context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id, ownerID string) (*models.Document, error) {
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocRepo) GetByNameInFolder(_ context.Context, ownerID, fileName string, folderID *string) (*models.Document, error) {
	for _, d := range r.docs {
		if d.OwnerID == ownerID && d.FileName == fileName && ptrEq(d.FolderID, folderID) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDocRepo) Update(_ context.Context, doc *models.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) UpdateFolder(_ context.Context, id, ownerID string, folderID *string) error {
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	d.FolderID = folderID
	return nil
}

func (r *fakeDocRepo) UpdateStatus(_ context.Context, id, ownerID string, status models.DocumentStatus) error {
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	d.Status = status
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, id, ownerID string) error {
	d, ok := r.docs[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocRepo) ListByFolder(_ context.Context, folderID *string, ownerID string) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.OwnerID == ownerID && ptrEq(d.FolderID, folderID) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, nil
}

func (r *fakeDocRepo) CountByFolder(ctx context.Context, folderID *string, ownerID string) (int, error) {
	docs, _ := r.ListByFolder(ctx, folderID, ownerID)
	return len(docs), nil
}

// passTx runs the function directly; transactional atomicity is exercised
// against a real database, not here.
type passTx struct{}

func (passTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeResolver struct {
	storeRef  models.StorageReference
	storeErr  error
	retrieved []byte
	failAll   bool
	stored    []string
	removed   []models.StorageReference
}

func (f *fakeResolver) Store(_ context.Context, _ []byte, name, ownerID, category string) (models.StorageReference, error) {
	f.stored = append(f.stored, name)
	if f.storeErr != nil {
		return models.StorageReference{}, f.storeErr
	}
	if f.storeRef.Tier == "" {
		return models.StorageReference{
			Tier: models.TierObjectStore,
			Key:  fmt.Sprintf("users/%s/%s/%s", ownerID, category, name),
		}, nil
	}
	return f.storeRef, nil
}

func (f *fakeResolver) Retrieve(_ context.Context, _ models.StorageReference, _, _, _ string) ([]byte, error) {
	if f.failAll {
		return nil, fmt.Errorf("all storage tiers exhausted: %w", domain.ErrStorageUnavailable)
	}
	return f.retrieved, nil
}

func (f *fakeResolver) Remove(_ context.Context, ref models.StorageReference) error {
	f.removed = append(f.removed, ref)
	return nil
}

type fakeCache struct {
	docs    map[string]*models.Document
	deleted []string
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{docs: make(map[string]*models.Document)}
}

func (c *fakeCache) GetDocument(_ context.Context, id string) (*models.Document, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.docs[id], nil
}

func (c *fakeCache) SetDocument(_ context.Context, doc *models.Document) error {
	cp := *doc
	c.docs[doc.ID] = &cp
	return nil
}

func (c *fakeCache) DeleteDocument(_ context.Context, id string) error {
	delete(c.docs, id)
	c.deleted = append(c.deleted, id)
	return nil
}

type fakeAudit struct {
	events []models.SecurityEvent
}

func (a *fakeAudit) Record(_ context.Context, event *models.SecurityEvent) {
	a.events = append(a.events, *event)
}

type fakeNaming struct {
	suggestion *services.NameSuggestion
	err        error
	calls      int
}

func (n *fakeNaming) SuggestName(_ context.Context, _ []byte, _, _ string) (*services.NameSuggestion, error) {
	n.calls++
	if n.err != nil {
		return nil, n.err
	}
	return n.suggestion, nil
}

var errNamingDown = errors.New("naming service unavailable")

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptr(s string) *string { return &s }
