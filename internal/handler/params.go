package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// pathUUID binds the named chi path parameter as a UUID. On failure it
// writes a 422 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		badParam(w, name, err)
		return uuid.Nil, false
	}
	return id, true
}

// query binds an optional form-style query parameter into dest, which must
// be a pointer to a pointer. On failure it writes a 422 and returns false.
func query(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		badParam(w, name, err)
		return false
	}
	return true
}

// requiredQuery is query for parameters that must be present; dest points
// at the value itself.
func requiredQuery(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, true, name, r.URL.Query(), dest); err != nil {
		badParam(w, name, err)
		return false
	}
	return true
}

// referenceTime returns ?at= when given, otherwise the server clock.
func (s *Server) referenceTime(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	var at *time.Time
	if !query(w, r, "at", &at) {
		return time.Time{}, false
	}
	if at != nil {
		return *at, true
	}
	return s.now(), true
}
