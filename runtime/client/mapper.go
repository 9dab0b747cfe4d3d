package client

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/satishbabariya/litedb/query"
)

// scanRows reads every row into a column-keyed map. Text returned as bytes
// is converted to string so the deserializer sees it; BLOB columns stay
// []byte. Values the driver parsed out of DATE columns are turned back into
// their stored text.
func scanRows(rows *sql.Rows) ([]query.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	results := []query.Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(query.Row, len(columns))
		for i, col := range columns {
			v := values[i]
			typeName := strings.ToUpper(types[i].DatabaseTypeName())
			switch x := v.(type) {
			case []byte:
				if typeName != "BLOB" {
					v = string(x)
				}
			case time.Time:
				v = dateText(typeName, x)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// dateText undoes the drivers' parsing of DATE, DATETIME and TIMESTAMP text.
// They read a zoneless value as UTC, but the timestamp triggers write local
// wall-clock time, so the fields are kept and the zone is left for the
// deserializer to apply.
func dateText(typeName string, t time.Time) any {
	switch typeName {
	case "DATE", "DATETIME", "TIMESTAMP":
		if t.Location() == time.UTC {
			return t.Format("2006-01-02 15:04:05.999999999")
		}
	}
	return t
}

// Bind copies rows into structs of type T. Columns are matched to fields by
// db tag, then field name, then case-insensitive field name; unmatched
// columns are ignored.
func Bind[T any](rows []query.Row) ([]T, error) {
	results := make([]T, 0, len(rows))
	for i, row := range rows {
		var result T
		if err := bindRow(reflect.ValueOf(&result).Elem(), row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func bindRow(val reflect.Value, row query.Row) error {
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("cannot bind into %s", val.Type())
	}
	typ := val.Type()
	for col, v := range row {
		field, ok := findFieldByName(typ, col)
		if !ok || v == nil {
			continue
		}
		fieldVal := val.FieldByIndex(field.Index)
		src := reflect.ValueOf(v)
		switch {
		case src.Type().AssignableTo(fieldVal.Type()):
			fieldVal.Set(src)
		case fieldVal.Kind() == reflect.Pointer && src.Type().AssignableTo(fieldVal.Type().Elem()):
			ptr := reflect.New(fieldVal.Type().Elem())
			ptr.Elem().Set(src)
			fieldVal.Set(ptr)
		case isNumeric(src.Kind()) && isNumeric(fieldVal.Kind()):
			fieldVal.Set(src.Convert(fieldVal.Type()))
		default:
			return fmt.Errorf("column %s: cannot assign %T to field %s of type %s", col, v, field.Name, fieldVal.Type())
		}
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// findFieldByName finds a struct field by database column name (db tag or field name)
func findFieldByName(typ reflect.Type, colName string) (reflect.StructField, bool) {
	var fold *reflect.StructField
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		if tag := strings.Split(field.Tag.Get("db"), ",")[0]; tag != "" {
			if tag == colName {
				return field, true
			}
			continue
		}
		if field.Name == colName {
			return field, true
		}
		if fold == nil && strings.EqualFold(field.Name, colName) {
			fold = &field
		}
	}
	if fold != nil {
		return *fold, true
	}
	return reflect.StructField{}, false
}
