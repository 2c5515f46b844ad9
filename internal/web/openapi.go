package web

import (
	"fmt"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// LoadOpenapi reads the document from location, or uses the embedded one when
// location is empty.
func LoadOpenapi(location string, embedded []byte) (*openapi3.T, []byte, error) {
	content := embedded
	if location != "" {
		fileContent, err := os.ReadFile(location)
		if err != nil {
			return nil, nil, fmt.Errorf("reading openapi document: %w", err)
		}
		content = fileContent
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(content)
	if err != nil {
		return nil, nil, fmt.Errorf("loading openapi document: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	return doc, content, nil
}

// OpenapiValidator rejects requests that do not match the documented operation.
// Paths missing from the document are passed through untouched.
func OpenapiValidator(doc *openapi3.T) (gin.HandlerFunc, error) {
	// match on path only, the service runs behind several host names
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(c *gin.Context) {
		route, pathParams, err := router.FindRoute(c.Request)
		if err == routers.ErrPathNotFound || err == routers.ErrMethodNotAllowed {
			return
		}
		if err != nil {
			HandleError(c, http.StatusBadRequest, "Unable to match request", err)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options:    options,
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			HandleError(c, http.StatusBadRequest, requestValidationMessage(err), err)
			return
		}
	}, nil
}

func requestValidationMessage(err error) string {
	switch e := err.(type) {
	case *openapi3filter.RequestError:
		if e.Parameter != nil {
			return fmt.Sprintf("Invalid parameter %s", e.Parameter.Name)
		}
		if e.RequestBody != nil {
			return "Invalid request body"
		}
	case *openapi3filter.SecurityRequirementsError:
		return "Not authorized"
	}

	return "Invalid request"
}
