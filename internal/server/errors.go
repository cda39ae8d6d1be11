package server

import (
	"errors"
	"net/http"
)

type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	return e.Message
}

var (
	errFileNotFound = &httpError{
		Status:  http.StatusNotFound,
		Message: "File not found",
	}
	errRootMissing = &httpError{
		Status:  http.StatusInternalServerError,
		Message: "Storage root is not available",
	}
)

var (
	errExists     = errors.New("already exists")
	errOutsideDir = errors.New("name escapes the target directory")
)
