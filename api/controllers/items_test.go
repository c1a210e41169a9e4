package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/api/middleware"
	"github.com/umtlostfound/lostfound-backend/internal/items"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	pkgerrors "github.com/umtlostfound/lostfound-backend/pkg/errors"
)

type fakeItemsService struct {
	filter   items.ListFilter
	viewer   *uuid.UUID
	getType  string
	owner    models.Profile
	created  items.CreateInput
	updateBy uuid.UUID
	err      error
}

func (f *fakeItemsService) List(_ context.Context, filter items.ListFilter) (*items.ListResult, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &items.ListResult{Items: []items.Item{}, Page: filter.Page, PerPage: filter.PerPage}, nil
}

func (f *fakeItemsService) Get(_ context.Context, id uuid.UUID, itemType string, viewer *uuid.UUID) (*items.Item, error) {
	f.viewer = viewer
	f.getType = itemType
	if f.err != nil {
		return nil, f.err
	}
	return &items.Item{ID: id, Type: "lost", Title: "Blue backpack"}, nil
}

func (f *fakeItemsService) Create(_ context.Context, owner models.Profile, input items.CreateInput) (*items.Item, error) {
	f.owner = owner
	f.created = input
	if f.err != nil {
		return nil, f.err
	}
	return &items.Item{ID: uuid.New(), Title: input.Title, UserID: owner.ID}, nil
}

func (f *fakeItemsService) Update(_ context.Context, ownerID, id uuid.UUID, _ string, _ items.UpdateInput) (*items.Item, error) {
	f.updateBy = ownerID
	if f.err != nil {
		return nil, f.err
	}
	return &items.Item{ID: id}, nil
}

func (f *fakeItemsService) Dashboard(_ context.Context, _ uuid.UUID) (*items.Dashboard, error) {
	return &items.Dashboard{LostReports: 2, FoundReports: 1, ItemsRecovered: 1, SuccessRate: 33.3}, nil
}

func TestListItemsParsesFilter(t *testing.T) {
	svc := &fakeItemsService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?type=lost&category=electronics&location=Library&urgency=high&has_reward=true&search=wallet&page=2&per_page=5", nil)
	resp := httptest.NewRecorder()
	ListItems(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	want := items.ListFilter{
		Type: "lost", Category: "electronics", Location: "Library", Urgency: "high",
		HasReward: true, Search: "wallet", Page: 2, PerPage: 5,
	}
	if svc.filter.Type != want.Type || svc.filter.Category != want.Category || svc.filter.Location != want.Location ||
		svc.filter.Urgency != want.Urgency || svc.filter.HasReward != want.HasReward || svc.filter.Search != want.Search ||
		svc.filter.Page != want.Page || svc.filter.PerPage != want.PerPage {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
	if svc.filter.OwnerID != nil {
		t.Fatal("public listing must not scope to an owner")
	}
}

func TestListItemsDefaults(t *testing.T) {
	svc := &fakeItemsService{}
	ListItems(svc, testLogger())(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
	if svc.filter.Page != 1 || svc.filter.PerPage != items.DefaultPerPage || svc.filter.HasReward {
		t.Fatalf("unexpected defaults %+v", svc.filter)
	}
}

func TestListItemsRejectsBadQuery(t *testing.T) {
	for _, query := range []string{"has_reward=maybe", "page=0", "per_page=500", "page=abc"} {
		resp := httptest.NewRecorder()
		ListItems(&fakeItemsService{}, testLogger())(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items?"+query, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", query, resp.Code)
		}
	}
}

func TestListMyItemsScopesToCaller(t *testing.T) {
	userID := uuid.New()
	svc := &fakeItemsService{}
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/me/items", nil), userID)
	resp := httptest.NewRecorder()
	ListMyItems(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if svc.filter.OwnerID == nil || *svc.filter.OwnerID != userID {
		t.Fatalf("expected owner scope %s, got %v", userID, svc.filter.OwnerID)
	}
}

func TestGetItemAnonymousAndSignedIn(t *testing.T) {
	id := uuid.New()
	svc := &fakeItemsService{}

	req := addRouteParam(httptest.NewRequest(http.MethodGet, "/api/v1/items/"+id.String()+"?type=found", nil), "itemId", id.String())
	resp := httptest.NewRecorder()
	GetItem(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if svc.viewer != nil {
		t.Fatal("anonymous request should have no viewer")
	}
	if svc.getType != "found" {
		t.Fatalf("expected type hint passed through, got %q", svc.getType)
	}

	viewer := uuid.New()
	req = asUser(httptest.NewRequest(http.MethodGet, "/api/v1/items/"+id.String(), nil), viewer)
	req = addRouteParam(req, "itemId", id.String())
	GetItem(svc, testLogger())(httptest.NewRecorder(), req)
	if svc.viewer == nil || *svc.viewer != viewer {
		t.Fatalf("expected viewer %s, got %v", viewer, svc.viewer)
	}
}

func TestGetItemMapsNotFound(t *testing.T) {
	id := uuid.New()
	svc := &fakeItemsService{err: pkgerrors.New(pkgerrors.CodeNotFound, "item not found")}
	req := addRouteParam(httptest.NewRequest(http.MethodGet, "/api/v1/items/"+id.String(), nil), "itemId", id.String())
	resp := httptest.NewRecorder()
	GetItem(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCreateItemUsesCallerProfile(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), FirstName: "Ada"}
	svc := &fakeItemsService{}
	body := `{"type":"lost","title":"Blue backpack","description":"Left near the fountain","category":"bags","location":"Library"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(body))
	req = req.WithContext(middleware.WithProfile(req.Context(), profile))

	resp := httptest.NewRecorder()
	CreateItem(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.owner.ID != profile.ID {
		t.Fatalf("expected owner %s, got %s", profile.ID, svc.owner.ID)
	}
	if svc.created.Title != "Blue backpack" || svc.created.Category != "bags" {
		t.Fatalf("unexpected input %+v", svc.created)
	}
	var envelope struct {
		Data items.Item `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.UserID != profile.ID {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestCreateItemRequiresProfile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	CreateItem(&fakeItemsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestUpdateItemForbiddenFromService(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	svc := &fakeItemsService{err: pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can edit this item")}
	req := asUser(httptest.NewRequest(http.MethodPut, "/api/v1/items/"+id.String(), strings.NewReader(`{"title":"New title"}`)), userID)
	req = addRouteParam(req, "itemId", id.String())

	resp := httptest.NewRecorder()
	UpdateItem(svc, testLogger())(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if svc.updateBy != userID {
		t.Fatalf("expected caller passed as owner")
	}
}

func TestMyDashboard(t *testing.T) {
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/me/dashboard", nil), uuid.New())
	resp := httptest.NewRecorder()
	MyDashboard(&fakeItemsService{}, testLogger())(resp, req)

	var envelope struct {
		Data items.Dashboard `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.SuccessRate != 33.3 || envelope.Data.LostReports != 2 {
		t.Fatalf("unexpected dashboard %+v", envelope.Data)
	}
}
