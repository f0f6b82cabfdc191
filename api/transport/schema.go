package transport

import (
	"encoding/json"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fastygo/tasklists/domain"
)

const (
	nullableString = `{"type": ["string", "null"]}`
	title          = `{"type": "string", "minLength": 1, "maxLength": 255}`
	nullableTitle  = `{"type": ["string", "null"], "minLength": 1, "maxLength": 255}`
	priority       = `{"enum": ["Low", "Medium", "High", null]}`
	dueDate        = `{"type": ["string", "null"], "format": "date"}`
)

var (
	ListCreateSchema = mustCompile("list_create.json", `{
		"type": "object",
		"required": ["title"],
		"properties": {
			"title": `+title+`,
			"description": `+nullableString+`
		}
	}`)

	ListUpdateSchema = mustCompile("list_update.json", `{
		"type": "object",
		"properties": {
			"title": `+nullableTitle+`,
			"description": `+nullableString+`,
			"status": {"enum": ["Active", "Deferred", "Deleted", null]}
		}
	}`)

	TaskCreateSchema = mustCompile("task_create.json", `{
		"type": "object",
		"required": ["title"],
		"properties": {
			"title": `+title+`,
			"description": `+nullableString+`,
			"priority": `+priority+`,
			"due_date": `+dueDate+`
		}
	}`)

	TaskUpdateSchema = mustCompile("task_update.json", `{
		"type": "object",
		"properties": {
			"title": `+nullableTitle+`,
			"description": `+nullableString+`,
			"status": {"enum": ["New", "In-Progress", "Completed", "Deferred", "Deleted", null]},
			"priority": `+priority+`,
			"due_date": `+dueDate+`
		}
	}`)

	TokenSchema = mustCompile("token.json", `{
		"type": "object",
		"required": ["client_id", "client_secret"],
		"properties": {
			"client_id": {"type": "string", "minLength": 1},
			"client_secret": {"type": "string", "minLength": 1}
		}
	}`)

	ClientRegisterSchema = mustCompile("client_register.json", `{
		"type": "object",
		"required": ["client_id", "client_secret", "name"],
		"properties": {
			"client_id": {"type": "string", "minLength": 3, "maxLength": 128},
			"client_secret": {"type": "string", "minLength": 8, "maxLength": 72},
			"name": {"type": "string", "minLength": 1, "maxLength": 255}
		}
	}`)
)

func mustCompile(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}

// Decode parses body, validates it against schema and unmarshals it into dst.
// Unparseable JSON yields an INVALID error; schema violations yield a
// VALIDATION_ERROR listing every offending field.
func Decode(body []byte, schema *jsonschema.Schema, dst interface{}) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return &domain.Error{
			Code:    domain.ErrCodeInvalid,
			Message: domain.ErrInvalidPayload.Message,
			Fields:  []domain.FieldError{{Field: "body", Message: err.Error()}},
			Err:     err,
		}
	}

	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err)
	}
	return nil
}

func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return domain.Validation(domain.FieldError{Field: "body", Message: err.Error()})
	}
	var fields []domain.FieldError
	collectFieldErrors(ve, &fields)
	if len(fields) == 0 {
		fields = append(fields, domain.FieldError{Field: "body", Message: ve.Message})
	}
	return domain.Validation(fields...)
}

const missingPrefix = "missing properties: "

// collectFieldErrors walks the cause tree and keeps the leaves, which carry
// the specific messages.
func collectFieldErrors(err *jsonschema.ValidationError, out *[]domain.FieldError) {
	if len(err.Causes) == 0 {
		if names, ok := strings.CutPrefix(err.Message, missingPrefix); ok {
			for _, name := range strings.Split(names, ",") {
				*out = append(*out, domain.FieldError{
					Field:   strings.Trim(strings.TrimSpace(name), "'"),
					Message: "field required",
				})
			}
			return
		}
		*out = append(*out, domain.FieldError{
			Field:   pointerToField(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectFieldErrors(cause, out)
	}
}

// pointerToField turns a JSON pointer such as "/due_date" into "due_date".
func pointerToField(pointer string) string {
	field := strings.TrimPrefix(pointer, "/")
	if field == "" {
		return "body"
	}
	return strings.ReplaceAll(field, "/", ".")
}
