// Package respond holds the JSON response and request helpers shared by every route file.
package respond

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/golang/glog"

	"fypportal/internal/qerrors"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// Message writes a {"message": ...} body.
func Message(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, map[string]string{"message": message})
}

// Error translates err into a response. Domain errors become {"message"} with their mapped
// status; anything else is a 500 echoing the raw error as {"error"}.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := qerrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		glog.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		JSON(w, r, status, map[string]string{"error": err.Error()})
		return
	}
	Message(w, r, status, err.Error())
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v interface{}) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		if errors.Is(err, io.EOF) {
			return qerrors.Validationf("request body is required")
		}
		return qerrors.Validationf("invalid request body: %v", err)
	}
	return nil
}
