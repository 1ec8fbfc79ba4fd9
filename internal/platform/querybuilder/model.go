package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Struct fields map to columns through `db` tags. The `readonly` option
// keeps a column in selects but out of inserts, for values the database
// fills in (versions, timestamps).
type modelField struct {
	column   string
	index    int
	readonly bool
}

var modelFieldCache sync.Map // reflect.Type -> []modelField

// InsertModel builds an insert of every writable `db` column of model.
func InsertModel(dialect Dialect, table string, model any, suffix string, suffixArgs ...any) (string, []any, error) {
	value, fields, err := inspectModel(model)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		if f.readonly {
			continue
		}
		cols = append(cols, f.column)
		vals = append(vals, value.Field(f.index).Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model %s has no writable db columns", value.Type())
	}

	return InsertInto(table).
		For(dialect).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix, suffixArgs...).
		ToSQL()
}

// SelectModel selects every `db` column of model, in field order. A model
// without columns surfaces as an error from ToSQL.
func SelectModel(model any) *SelectBuilder {
	_, fields, err := inspectModel(model)
	if err != nil {
		return &SelectBuilder{}
	}
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return Select(cols...)
}

func inspectModel(model any) (reflect.Value, []modelField, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return reflect.Value{}, nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("model must be a struct, got %s", value.Kind())
	}

	typ := value.Type()
	if cached, ok := modelFieldCache.Load(typ); ok {
		return value, cached.([]modelField), nil
	}

	fields := make([]modelField, 0, typ.NumField())
	for i := range typ.NumField() {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(sf.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, modelField{
			column:   name,
			index:    i,
			readonly: hasTagOption(opts, "readonly"),
		})
	}
	if len(fields) == 0 {
		return reflect.Value{}, nil, fmt.Errorf("model %s has no db columns", typ)
	}

	modelFieldCache.Store(typ, fields)
	return value, fields, nil
}

func hasTagOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if strings.TrimSpace(opt) == want {
			return true
		}
	}
	return false
}
