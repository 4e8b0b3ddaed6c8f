// Package dto provides Data Transfer Objects for HTTP requests.
package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
)

// ErrMalformedBody is returned when a request body cannot be decoded.
var ErrMalformedBody = errors.New("malformed request body")

// CredentialsRequest is the signup and login payload.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DecodeCredentials reads email and password from a JSON body when the
// request declares application/json, and from form values otherwise.
// Missing fields decode as empty strings.
func DecodeCredentials(r *http.Request) (CredentialsRequest, error) {
	var req CredentialsRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return CredentialsRequest{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return CredentialsRequest{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	req.Email = r.PostFormValue("email")
	req.Password = r.PostFormValue("password")
	return req, nil
}
