package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/api/middleware"
	"github.com/umtlostfound/lostfound-backend/api/responses"
	"github.com/umtlostfound/lostfound-backend/api/validators"
	"github.com/umtlostfound/lostfound-backend/internal/items"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

// ItemsService is the report surface the HTTP layer needs.
type ItemsService interface {
	List(ctx context.Context, filter items.ListFilter) (*items.ListResult, error)
	Get(ctx context.Context, id uuid.UUID, itemType string, viewer *uuid.UUID) (*items.Item, error)
	Create(ctx context.Context, owner models.Profile, input items.CreateInput) (*items.Item, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, itemType string, input items.UpdateInput) (*items.Item, error)
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*items.Dashboard, error)
}

// ListItems serves the unified lost and found listing.
func ListItems(svc ItemsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// ListMyItems serves the caller's own reports in every status.
func ListMyItems(svc ItemsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := listFilterFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.OwnerID = &userID

		resp, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// GetItem returns one report. The optional "type" query parameter picks the
// table; without it lost is tried before found.
func GetItem(svc ItemsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var viewer *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if parsed, parseErr := uuid.Parse(raw); parseErr == nil {
				viewer = &parsed
			}
		}

		item, err := svc.Get(r.Context(), id, r.URL.Query().Get("type"), viewer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// CreateItem stores a new lost or found report for the caller.
func CreateItem(svc ItemsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := callerProfile(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input items.CreateInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), *profile, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// UpdateItem applies the owner's partial edit.
func UpdateItem(svc ItemsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input items.UpdateInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), userID, id, r.URL.Query().Get("type"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// MyDashboard returns the caller's report counts and success rate.
func MyDashboard(svc ItemsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dashboard, err := svc.Dashboard(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}

func listFilterFromQuery(r *http.Request) (items.ListFilter, error) {
	q := r.URL.Query()
	filter := items.ListFilter{
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		Urgency:  q.Get("urgency"),
		Search:   q.Get("search"),
	}

	hasReward, err := validators.ParseQueryBool(r, "has_reward")
	if err != nil {
		return filter, err
	}
	filter.HasReward = hasReward

	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return filter, err
	}
	filter.Page = page

	perPage, err := validators.ParseQueryInt(r, "per_page", items.DefaultPerPage, 1, items.MaxPerPage)
	if err != nil {
		return filter, err
	}
	filter.PerPage = perPage

	return filter, nil
}
