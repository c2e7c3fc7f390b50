package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/go-github/v82/github"
)

// ErrInvalidEntity matches a DiscoveryError whose entity exists in no namespace.
var ErrInvalidEntity = errors.New("entity is not valid")

// ErrorKind classifies discovery failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidEntity
	KindNetwork
	KindDecode
	KindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidEntity:
		return "invalid entity"
	case KindNetwork:
		return "network error"
	case KindDecode:
		return "decode error"
	case KindStatus:
		return "unexpected status"
	default:
		return "unknown error"
	}
}

// DiscoveryError describes why an entity's repositories could not be listed.
type DiscoveryError struct {
	Kind       ErrorKind
	Entity     string
	Namespace  string
	StatusCode int
	Err        error
}

func (e *DiscoveryError) Error() string {
	if e.Kind == KindInvalidEntity {
		return fmt.Sprintf("%s: %s", ErrInvalidEntity.Error(), e.Entity)
	}

	msg := fmt.Sprintf("listing %s/%s: %s", e.Namespace, e.Entity, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s %d", msg, e.StatusCode)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

func (e *DiscoveryError) Is(target error) bool {
	return target == ErrInvalidEntity && e.Kind == KindInvalidEntity
}

// classify maps a go-github error onto a DiscoveryError.
func classify(namespace, entity string, err error) *DiscoveryError {
	de := &DiscoveryError{
		Kind:      KindUnknown,
		Entity:    entity,
		Namespace: namespace,
		Err:       err,
	}

	if resp := errorResponse(err); resp != nil {
		de.StatusCode = resp.StatusCode
		if resp.StatusCode == http.StatusNotFound {
			de.Kind = KindInvalidEntity
		} else {
			de.Kind = KindStatus
		}

		return de
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		urlErr    *url.Error
	)

	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		de.Kind = KindDecode
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.As(err, &urlErr):
		de.Kind = KindNetwork
	}

	return de
}

func errorResponse(err error) *http.Response {
	var (
		respErr  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
	)

	switch {
	case errors.As(err, &rateErr):
		return rateErr.Response
	case errors.As(err, &abuseErr):
		return abuseErr.Response
	case errors.As(err, &respErr):
		return respErr.Response
	}

	return nil
}
