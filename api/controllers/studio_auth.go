package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lumenpress/albumforge-backend/api/responses"
	"github.com/lumenpress/albumforge-backend/api/validators"
	"github.com/lumenpress/albumforge-backend/internal/auth"
	pkgerrors "github.com/lumenpress/albumforge-backend/pkg/errors"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
)

type studioLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type studioUserPayload struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

type studioLoginResponse struct {
	AccessToken string            `json:"access_token"`
	User        studioUserPayload `json:"user"`
}

// StudioLogin authenticates a studio user and issues an access token.
func StudioLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload studioLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), auth.LoginRequest{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, studioLoginResponse{
			AccessToken: resp.AccessToken,
			User: studioUserPayload{
				ID:          resp.User.ID,
				Email:       resp.User.Email,
				DisplayName: resp.User.DisplayName,
			},
		})
	}
}
