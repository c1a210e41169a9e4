package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/api/responses"
	"github.com/umtlostfound/lostfound-backend/api/validators"
	"github.com/umtlostfound/lostfound-backend/internal/claims"
	"github.com/umtlostfound/lostfound-backend/internal/messages"
	"github.com/umtlostfound/lostfound-backend/pkg/db/models"
	"github.com/umtlostfound/lostfound-backend/pkg/logger"
)

// ClaimsService covers claim creation, listing and owner decisions.
type ClaimsService interface {
	Create(ctx context.Context, claimerID uuid.UUID, input claims.CreateInput) (*claims.Claim, error)
	List(ctx context.Context, userID uuid.UUID, role string) ([]claims.Claim, error)
	UpdateStatus(ctx context.Context, ownerID, claimID uuid.UUID, input claims.UpdateStatusInput) (*claims.Claim, error)
}

// MessagesService covers the conversation attached to a claim.
type MessagesService interface {
	List(ctx context.Context, params messages.ListParams) (*messages.ListResult, error)
	Send(ctx context.Context, userID, claimID uuid.UUID, body string) (*models.Message, error)
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// CreateClaim files a claim on someone else's report.
func CreateClaim(svc ClaimsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input claims.CreateInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claim, err := svc.Create(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, claim)
	}
}

// ListClaims returns claims the caller filed (role=claimer, the default) or
// claims on the caller's reports (role=owner).
func ListClaims(svc ClaimsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := r.URL.Query().Get("role")
		if role == "" {
			role = "claimer"
		}

		out, err := svc.List(r.Context(), userID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// UpdateClaimStatus records the owner's decision on a claim.
func UpdateClaimStatus(svc ClaimsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claimID, err := pathUUID(r, "claimId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input claims.UpdateStatusInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claim, err := svc.UpdateStatus(r.Context(), userID, claimID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, claim)
	}
}

// ListClaimMessages returns one page of a claim conversation.
func ListClaimMessages(svc MessagesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claimID, err := pathUUID(r, "claimId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.List(r.Context(), messages.ListParams{
			UserID:  userID,
			ClaimID: claimID,
			Limit:   limit,
			Cursor:  r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// SendClaimMessage posts a message to the other participant.
func SendClaimMessage(svc MessagesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		claimID, err := pathUUID(r, "claimId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload sendMessageRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		msg, err := svc.Send(r.Context(), userID, claimID, payload.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, msg)
	}
}
