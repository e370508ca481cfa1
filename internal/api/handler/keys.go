package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ItsMeCK/AIInterview/internal/api/response"
	"github.com/ItsMeCK/AIInterview/internal/store"
	"github.com/ItsMeCK/AIInterview/pkg/models"
)

const rawKeyBytes = 24

var allowedScopes = map[string]bool{
	"admin":  true,
	"read":   true,
	"write":  true,
	"review": true,
}

// NewCreateKeyHandler returns the handler for POST /api/v1/admin/keys. The
// raw key appears in this response and nowhere else; only its bcrypt hash
// is stored.
func NewCreateKeyHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}

		var req struct {
			Name   string   `json:"name"`
			Scopes []string `json:"scopes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if len(req.Scopes) == 0 {
			req.Scopes = []string{"read"}
		}
		for _, scope := range req.Scopes {
			if !allowedScopes[scope] {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					fmt.Sprintf("unknown scope %q", scope), nil)
				return
			}
		}

		rawKey, err := generateRawKey()
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to generate key", nil)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to hash key", nil)
			return
		}

		now := time.Now().UTC()
		key := &models.AdminKey{
			ID:        uuid.New(),
			CompanyID: companyID,
			Name:      strings.TrimSpace(req.Name),
			KeyHash:   string(hash),
			KeyPrefix: rawKey[:8],
			Scopes:    req.Scopes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreateAdminKey(r.Context(), key); err != nil {
			writeServiceError(w, err)
			return
		}

		response.Created(w, map[string]any{
			"id":         key.ID,
			"name":       key.Name,
			"key":        rawKey,
			"key_prefix": key.KeyPrefix,
			"scopes":     key.Scopes,
		})
	}
}

// NewListKeysHandler returns the handler for GET /api/v1/admin/keys.
func NewListKeysHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}

		keys, err := st.ListAdminKeys(r.Context(), companyID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if keys == nil {
			keys = []*models.AdminKey{}
		}
		response.JSON(w, keys)
	}
}

// NewRevokeKeyHandler returns the handler for DELETE /api/v1/admin/keys/{keyID}.
func NewRevokeKeyHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, ok := requireCompany(w, r)
		if !ok {
			return
		}
		keyID, err := uuid.Parse(chi.URLParam(r, "keyID"))
		if err != nil {
			response.Error(w, http.StatusNotFound, "NOT_FOUND",
				"The requested resource does not exist", nil)
			return
		}

		if err := st.RevokeAdminKey(r.Context(), keyID, companyID); err != nil {
			writeServiceError(w, err)
			return
		}
		response.NoContent(w)
	}
}

func generateRawKey() (string, error) {
	buf := make([]byte, rawKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "hk_" + hex.EncodeToString(buf), nil
}
