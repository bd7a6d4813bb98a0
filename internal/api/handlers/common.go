package handlers

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tuneport/backend/internal/utils"
)

// GetUserIDFromContext extracts the authenticated user's object id from the
// request context. It writes a 401 response and returns the zero id when
// the request carries no valid identity.
func GetUserIDFromContext(w http.ResponseWriter, r *http.Request) bson.ObjectID {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return bson.NilObjectID
	}
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid user identity")
		return bson.NilObjectID
	}
	return oid
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
