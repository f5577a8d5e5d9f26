package handlers

import (
	"errors"
	"fmt"
	"net/http"

	gjson "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// JSONSerializer is an echo.JSONSerializer backed by goccy/go-json. Registry payloads carry every
// instance of the cluster, so both directions sit on the hot path.
type JSONSerializer struct{}

var _ echo.JSONSerializer = JSONSerializer{}

// Serialize writes i to the response.
func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := gjson.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

// Deserialize reads the request body into i.
func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := gjson.NewDecoder(c.Request().Body).Decode(i)
	var typeErr *gjson.UnmarshalTypeError
	var syntaxErr *gjson.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", typeErr.Type, typeErr.Value, typeErr.Field, typeErr.Offset)).SetInternal(err)
	case errors.As(err, &syntaxErr):
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Syntax error: offset=%v, error=%v", syntaxErr.Offset, syntaxErr.Error())).SetInternal(err)
	}
	return err
}
